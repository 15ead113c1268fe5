package ports

import "context"

// Entity is the capability the generic repository is polymorphic over: a
// single string identity field the store can read and assign.
type Entity interface {
	EntityID() string
	SetEntityID(id string)
}

// Repository is a transactional CRUD store for one entity type. Every call
// opens and closes its own transaction; no transaction or cursor outlives a
// single operation. Batch operations are all-or-nothing.
type Repository[T Entity] interface {
	// Create persists the entity, assigning an identity when none is set,
	// and returns the stored value.
	Create(ctx context.Context, entity T) (T, error)
	// CreateAll persists all entities in one transaction; any failure rolls
	// back the entire batch.
	CreateAll(ctx context.Context, entities []T) ([]T, error)
	// Read returns the entity with the given identity or ErrNotFound.
	Read(ctx context.Context, id string) (T, error)
	// FindAll returns every stored entity in insertion order. An empty store
	// yields an empty slice, never an error.
	FindAll(ctx context.Context) ([]T, error)
	// Update replaces the stored entity (last writer wins) and returns the
	// post-merge state.
	Update(ctx context.Context, entity T) (T, error)
	// UpdateAll updates all entities in one transaction, all-or-nothing.
	UpdateAll(ctx context.Context, entities []T) ([]T, error)
	// Delete removes the entity.
	Delete(ctx context.Context, entity T) error
	// DeleteByID resolves the entity first, returning ErrNotFound when it is
	// absent, then removes it.
	DeleteByID(ctx context.Context, id string) error
}
