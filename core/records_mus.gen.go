// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

var (
	sliceblgFaOu3dL0a8Wc935ΣCfQΞΞ = ord.NewSliceSer[string](ord.String)
	slicedOuo6MonjssuvK5m57QpywΞΞ = ord.NewSliceSer[float32](varint.Float32)
)

var IDMUS = iDMUS{}

type iDMUS struct{}

func (s iDMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s iDMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	tmp, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v = ID(tmp)
	return
}

func (s iDMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

func (s iDMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

var ChunkMUS = chunkMUS{}

type chunkMUS struct{}

func (s chunkMUS) Marshal(v Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Content, bs[n:])
	n += varint.Int.Marshal(v.StartIndex, bs[n:])
	n += varint.Int.Marshal(v.EndIndex, bs[n:])
	n += IDMUS.Marshal(v.SourceId, bs[n:])
	n += ord.String.Marshal(v.SourceName, bs[n:])
	n += varint.Int.Marshal(v.ChunkIndex, bs[n:])
	n += varint.Int.Marshal(v.TotalChunks, bs[n:])
	n += ord.String.Marshal(v.ProjectId, bs[n:])
	n += IDMUS.Marshal(v.PreviousId, bs[n:])
	n += IDMUS.Marshal(v.NextId, bs[n:])
	n += varint.Int.Marshal(v.ChunkSize, bs[n:])
	n += varint.Int.Marshal(v.ChunkOverlap, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreatedAt, bs[n:])
	n += ord.String.Marshal(v.ContentType, bs[n:])
	return n + sliceblgFaOu3dL0a8Wc935ΣCfQΞΞ.Marshal(v.Keywords, bs[n:])
}

func (s chunkMUS) Unmarshal(bs []byte) (v Chunk, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StartIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EndIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SourceId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.SourceName, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.TotalChunks, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ProjectId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.PreviousId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.NextId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ChunkSize, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ChunkOverlap, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreatedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ContentType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Keywords, n1, err = sliceblgFaOu3dL0a8Wc935ΣCfQΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s chunkMUS) Size(v Chunk) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Content)
	size += varint.Int.Size(v.StartIndex)
	size += varint.Int.Size(v.EndIndex)
	size += IDMUS.Size(v.SourceId)
	size += ord.String.Size(v.SourceName)
	size += varint.Int.Size(v.ChunkIndex)
	size += varint.Int.Size(v.TotalChunks)
	size += ord.String.Size(v.ProjectId)
	size += IDMUS.Size(v.PreviousId)
	size += IDMUS.Size(v.NextId)
	size += varint.Int.Size(v.ChunkSize)
	size += varint.Int.Size(v.ChunkOverlap)
	size += raw.TimeUnixMicro.Size(v.CreatedAt)
	size += ord.String.Size(v.ContentType)
	return size + sliceblgFaOu3dL0a8Wc935ΣCfQΞΞ.Size(v.Keywords)
}

func (s chunkMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = sliceblgFaOu3dL0a8Wc935ΣCfQΞΞ.Skip(bs[n:])
	n += n1
	return
}

var RawDocumentMUS = rawDocumentMUS{}

type rawDocumentMUS struct{}

func (s rawDocumentMUS) Marshal(v RawDocument, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.ProjectId, bs[n:])
	n += ord.String.Marshal(v.Name, bs[n:])
	n += ord.String.Marshal(v.Text, bs[n:])
	n += ord.String.Marshal(v.ContentType, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.InsertedAt, bs[n:])
}

func (s rawDocumentMUS) Unmarshal(bs []byte) (v RawDocument, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.ProjectId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ContentType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.InsertedAt, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s rawDocumentMUS) Size(v RawDocument) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.ProjectId)
	size += ord.String.Size(v.Name)
	size += ord.String.Size(v.Text)
	size += ord.String.Size(v.ContentType)
	return size + raw.TimeUnixMicro.Size(v.InsertedAt)
}

func (s rawDocumentMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}

var VectorMetadataMUS = vectorMetadataMUS{}

type vectorMetadataMUS struct{}

func (s vectorMetadataMUS) Marshal(v VectorMetadata, bs []byte) (n int) {
	n = ord.String.Marshal(v.Content, bs)
	n += ord.String.Marshal(v.Source, bs[n:])
	n += ord.String.Marshal(v.ProjectId, bs[n:])
	n += IDMUS.Marshal(v.ChunkId, bs[n:])
	n += varint.Int.Marshal(v.ChunkIndex, bs[n:])
	n += varint.Int.Marshal(v.StartIndex, bs[n:])
	return n + varint.Int.Marshal(v.EndIndex, bs[n:])
}

func (s vectorMetadataMUS) Unmarshal(bs []byte) (v VectorMetadata, n int, err error) {
	v.Content, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ProjectId, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ChunkId, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ChunkIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.StartIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EndIndex, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (s vectorMetadataMUS) Size(v VectorMetadata) (size int) {
	size = ord.String.Size(v.Content)
	size += ord.String.Size(v.Source)
	size += ord.String.Size(v.ProjectId)
	size += IDMUS.Size(v.ChunkId)
	size += varint.Int.Size(v.ChunkIndex)
	size += varint.Int.Size(v.StartIndex)
	return size + varint.Int.Size(v.EndIndex)
}

func (s vectorMetadataMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = IDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = varint.Int.Skip(bs[n:])
	n += n1
	return
}

var VectorMUS = vectorMUS{}

type vectorMUS struct{}

func (s vectorMUS) Marshal(v Vector, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += slicedOuo6MonjssuvK5m57QpywΞΞ.Marshal(v.Values, bs[n:])
	return n + VectorMetadataMUS.Marshal(v.Metadata, bs[n:])
}

func (s vectorMUS) Unmarshal(bs []byte) (v Vector, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Values, n1, err = slicedOuo6MonjssuvK5m57QpywΞΞ.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Metadata, n1, err = VectorMetadataMUS.Unmarshal(bs[n:])
	n += n1
	return
}

func (s vectorMUS) Size(v Vector) (size int) {
	size = IDMUS.Size(v.Id)
	size += slicedOuo6MonjssuvK5m57QpywΞΞ.Size(v.Values)
	return size + VectorMetadataMUS.Size(v.Metadata)
}

func (s vectorMUS) Skip(bs []byte) (n int, err error) {
	n, err = IDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = slicedOuo6MonjssuvK5m57QpywΞΞ.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = VectorMetadataMUS.Skip(bs[n:])
	n += n1
	return
}
