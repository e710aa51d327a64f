package api

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/labelspread/pkg/labels"
)

// ErrSetNotFound is returned by store lookups and deletes when no set has
// the requested ID.
var ErrSetNotFound = errors.New("set not found")

// StoredSet wraps a label set with the identity and timestamps the API
// exposes. The ID doubles as the document key in MongoDB.
type StoredSet struct {
	ID        string      `json:"id" bson:"_id"`
	Set       *labels.Set `json:"set" bson:"set"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

// clone returns a deep copy so store internals never alias caller data.
func (s *StoredSet) clone() *StoredSet {
	out := *s
	if s.Set != nil {
		out.Set = s.Set.Clone()
	}
	return &out
}

// Store is the interface for set persistence backends.
type Store interface {
	// Get retrieves a stored set by ID.
	// Returns ErrSetNotFound if no set has the ID.
	Get(ctx context.Context, id string) (*StoredSet, error)

	// Put stores a set, replacing any existing set with the same ID.
	Put(ctx context.Context, set *StoredSet) error

	// Delete removes a stored set.
	// Returns ErrSetNotFound if no set has the ID.
	Delete(ctx context.Context, id string) error

	// List returns all stored sets ordered by ID.
	List(ctx context.Context) ([]*StoredSet, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
