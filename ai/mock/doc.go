// Package mock provides hand-written test doubles for the ai service
// interfaces with deterministic default behavior.
package mock
