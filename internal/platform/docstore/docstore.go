// Package docstore is the narrow contract over the managed document backend.
// Documents are schemaless JSON keyed by collection and id; callers pass typed
// records in and out and the store round-trips them through JSON.
package docstore

import "context"

type Op string

const (
	OpEqual         Op = "=="
	OpArrayContains Op = "array-contains"
)

type Filter struct {
	Field string
	Op    Op
	Value interface{}
}

// DeleteField marks a patch entry whose field must be removed from the
// document instead of being set.
type deleteFieldSentinel struct{}

var DeleteField = deleteFieldSentinel{}

// Patch is a typed-at-the-repository, validated-before-persistence set of
// field updates. A value of DeleteField removes the field.
type Patch map[string]interface{}

type WriteKind int

const (
	WriteSet WriteKind = iota
	WriteUpdate
	WriteDelete
)

// WriteOp is one element of an atomic batch.
type WriteOp struct {
	Kind       WriteKind
	Collection string
	ID         string
	Doc        interface{} // WriteSet
	Patch      Patch       // WriteUpdate
}

// Tx exposes read-then-write operations inside RunTransaction. Reads lock the
// documents they touch for the duration of the transaction.
type Tx interface {
	Get(collection, id string, out interface{}) error
	Set(collection, id string, doc interface{}) error
	Update(collection, id string, patch Patch) error
	Delete(collection, id string) error
}

// Store is the document backend contract. Get and Query return
// apperrors.ErrNotFound / empty slices respectively when nothing matches;
// everything else is wrapped as a backend failure.
type Store interface {
	// Create stores doc under a generated id and returns it.
	Create(ctx context.Context, collection string, doc interface{}) (string, error)
	// Set stores doc under the given id, overwriting any existing document.
	Set(ctx context.Context, collection, id string, doc interface{}) error
	Get(ctx context.Context, collection, id string, out interface{}) error
	// Query unmarshals every matching document into out, which must be a
	// pointer to a slice. Filters are ANDed.
	Query(ctx context.Context, collection string, filters []Filter, out interface{}) error
	Update(ctx context.Context, collection, id string, patch Patch) error
	Delete(ctx context.Context, collection, id string) error
	// Batch commits all ops atomically.
	Batch(ctx context.Context, ops []WriteOp) error
	// RunTransaction runs fn with read-then-write semantics. The whole
	// function either commits or leaves the store untouched.
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
}
