// Package rag answers questions over a vector store collection.
//
// The Service embeds a question, retrieves the most similar entries from
// the collection, stuffs their texts into a prompt template, and asks a
// chat model for an answer. Every answer carries the sources it was
// grounded on.
package rag
