package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/shakedshoshan/RAGify-sub000/core"
)

// Key prefixes for different data types
const (
	chunkRecordPrefix  = "chkrec"
	chunkProjectPrefix = "chkproj"
	chunkIDSeq         = "chkrecseq"
	docRecordPrefix    = "docrec"
	docProjectPrefix   = "docproj"
	docIDSeq           = "docrecseq"
)

// makeChunkKey generates a key for a chunk record by ID.
func makeChunkKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", chunkRecordPrefix, id))
}

// makeChunkProjectKey generates a composite key for the chunk project index.
// Format: prefix:projectID:id
func makeChunkProjectKey(projectID string, id core.ID) []byte {
	return makeProjectKey(chunkProjectPrefix, projectID, id)
}

// makeChunkProjectPrefix generates the iteration prefix for a project's chunks.
func makeChunkProjectPrefix(projectID string) []byte {
	return []byte(chunkProjectPrefix + ":" + projectID + ":")
}

// makeDocKey generates a key for a raw document by ID.
func makeDocKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", docRecordPrefix, id))
}

// makeDocProjectKey generates a composite key for the document project index.
func makeDocProjectKey(projectID string, id core.ID) []byte {
	return makeProjectKey(docProjectPrefix, projectID, id)
}

// makeDocProjectPrefix generates the iteration prefix for a project's documents.
func makeDocProjectPrefix(projectID string) []byte {
	return []byte(docProjectPrefix + ":" + projectID + ":")
}

// makeProjectKey builds prefix:projectID:id with the ID written in BigEndian
// order so lexicographic iteration visits records in insertion order.
func makeProjectKey(prefix, projectID string, id core.ID) []byte {
	head := []byte(prefix + ":" + projectID + ":")
	buf := make([]byte, len(head)+8)
	offset := copy(buf, head)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}
