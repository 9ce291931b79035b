// Copyright 2025 RAGify Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"github.com/shakedshoshan/RAGify-sub000/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	var id core.ID
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, core.ChunkMUS.Size(*chunk))
	core.ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := core.ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalRawDocument serializes a RawDocument to bytes.
func MarshalRawDocument(doc *core.RawDocument) []byte {
	buf := make([]byte, core.RawDocumentMUS.Size(*doc))
	core.RawDocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalRawDocument deserializes a RawDocument from bytes.
func UnmarshalRawDocument(data []byte) (*core.RawDocument, error) {
	doc, _, err := core.RawDocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// MarshalVector serializes a Vector to bytes.
func MarshalVector(vector *core.Vector) []byte {
	buf := make([]byte, core.VectorMUS.Size(*vector))
	core.VectorMUS.Marshal(*vector, buf)
	return buf
}

// UnmarshalVector deserializes a Vector from bytes.
func UnmarshalVector(data []byte) (*core.Vector, error) {
	vector, _, err := core.VectorMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &vector, nil
}
