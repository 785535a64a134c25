package types

// Backend owns the lifecycle of a Store. Callers attach with a Config,
// obtain the store, and detach when done.
type Backend interface {
	// Attach connects the backend to the storage described by config.
	// Creates DataDir if it does not exist. Returns ErrAlreadyAttached if
	// called while already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls succeed.
	// After Detach, Todos returns ErrBackendDetached.
	Detach() error

	// Todos returns the todo store for an attached backend.
	Todos() (Store, error)
}
