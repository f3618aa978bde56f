// Package storage defines the persistence interface for collections of
// embedded chunks, the MUS wire format for stored records, and the
// sentinel errors shared by backend implementations.
package storage
