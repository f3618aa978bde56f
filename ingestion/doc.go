// Package ingestion feeds documents from the filesystem into a vector
// store collection.
//
// A Feeder runs the stages of a feed strictly in order: load documents,
// optionally split them into overlapping chunks, embed the chunk texts,
// then append the resulting entries to the collection. Any stage failing
// aborts the feed and leaves already-appended entries in place.
package ingestion
