package badger

// NewMemoryStore creates a CollectionStore backed by an in-memory BadgerDB.
// Intended for tests.
func NewMemoryStore() (*CollectionStore, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}
	return NewCollectionStore(backend)
}
