// Package splitter cuts documents into fixed-size overlapping text
// windows for embedding. Chunk boundaries are length-based on purpose:
// the retrieval quality cost is acceptable for this project and the
// reconstruction property keeps citations exact.
package splitter
