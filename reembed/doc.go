// Package reembed regenerates the vectors of a collection's entries,
// typically after switching to a different embedding model. Entries are
// walked in batches, embedded with retry, and rewritten in place.
package reembed
