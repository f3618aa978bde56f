package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/douglasmakey/chatting-with-docs/core"
)

// Key prefixes for different data types
const (
	collectionPrefix = "col"
	entryPrefix      = "ent"
	entrySeqPrefix   = "entseq"
)

// makeCollectionKey generates a registry key for a collection by ID.
func makeCollectionKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", collectionPrefix, id))
}

// makeEntryKey generates a composite key for an entry.
// Format: prefix:collectionID:entryID
func makeEntryKey(collectionID, entryID core.ID) []byte {
	prefix := entryPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 16 // 8 bytes for collectionID + 8 bytes for entryID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort preserves insertion order
	binary.BigEndian.PutUint64(buf[offset:], uint64(collectionID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(entryID))
	return buf
}

// makeEntryScanPrefix generates the key prefix covering all entries of
// one collection.
func makeEntryScanPrefix(collectionID core.ID) []byte {
	prefix := entryPrefix + ":"
	prefixBytes := []byte(prefix)
	prefixSize := len(prefixBytes)
	totalSize := prefixSize + 8
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(collectionID))
	return buf
}

// makeEntrySeqName generates the sequence name for a collection's entry IDs.
func makeEntrySeqName(collectionID core.ID) string {
	return fmt.Sprintf("%s:%d", entrySeqPrefix, collectionID)
}
