// Package loader reads raw files of a declared data type from a
// directory and turns them into documents tagged with source metadata.
package loader
