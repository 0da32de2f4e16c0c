package core

// Store is the key-value persistence primitive the whole application sits on.
// Each collection is serialized as one JSON document under a namespaced key.
type Store interface {
	// Get returns the raw value for key; ok is false when the key is absent.
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Clear wipes every key in the store. Irreversible.
	Clear() error
}
