// Package persist provides the persistence abstraction and its CSV, XML and
// PostgreSQL implementations.
//
// Callers depend on [Saver], [Loader] or [Handler], never on a concrete
// implementation. Every Save call rewrites its destination wholesale; there is
// no append and no versioning. Handlers copy the records they are given and
// keep no reference to them once a call returns.
package persist

import (
	"context"

	"github.com/JonMunkholm/entities/internal/entity"
)

// Format keys reported by the bundled handlers.
const (
	FormatCSV      = "csv"
	FormatXML      = "xml"
	FormatPostgres = "postgres"
)

// Saver persists one record or a collection, replacing whatever the
// destination held before.
type Saver interface {
	Save(ctx context.Context, entities ...entity.Entity) error
}

// Loader reads a destination back into newly built records.
type Loader interface {
	Load(ctx context.Context) ([]entity.Entity, error)
}

// Handler is a persistence strategy bound to one format and one destination.
type Handler interface {
	Saver
	Loader
	Format() string
}

// FileBacked is implemented by handlers whose destination is a single file.
type FileBacked interface {
	Path() string
}

// EntitySaver forwards saves to whichever Saver it was built with.
type EntitySaver struct {
	saver Saver
}

// NewEntitySaver returns an EntitySaver delegating to s.
func NewEntitySaver(s Saver) *EntitySaver {
	return &EntitySaver{saver: s}
}

// Save forwards to the underlying Saver unchanged.
func (s *EntitySaver) Save(ctx context.Context, entities ...entity.Entity) error {
	return s.saver.Save(ctx, entities...)
}
