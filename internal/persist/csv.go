package persist

import (
	"context"
	"io"

	"github.com/JonMunkholm/entities/internal/csvfile"
	"github.com/JonMunkholm/entities/internal/entity"
	"github.com/JonMunkholm/entities/internal/logging"
)

// CSVHandler stores records in a CSV file.
type CSVHandler struct {
	path   string
	tagged bool
}

// CSVOption configures a CSVHandler.
type CSVOption func(*CSVHandler)

// WithTaggedRows adds a "Type" column so every kind decodes exactly.
// Without it, vehicle models made only of digits are read back as
// pedestrian ages.
func WithTaggedRows(enabled bool) CSVOption {
	return func(h *CSVHandler) { h.tagged = enabled }
}

// NewCSVHandler returns a handler bound to path.
func NewCSVHandler(path string, opts ...CSVOption) *CSVHandler {
	h := &CSVHandler{path: path}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var (
	_ Handler    = (*CSVHandler)(nil)
	_ FileBacked = (*CSVHandler)(nil)
)

// Format implements Handler.
func (h *CSVHandler) Format() string { return FormatCSV }

// Path returns the destination file.
func (h *CSVHandler) Path() string { return h.path }

// Save rewrites the file with a header row and one row per record.
func (h *CSVHandler) Save(ctx context.Context, entities ...entity.Entity) error {
	err := writeFileAtomic(ctx, "csv.save", h.path, func(w io.Writer) error {
		return csvfile.Write(w, entities, h.tagged)
	})
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Debug("entities saved",
		"format", FormatCSV,
		"path", h.path,
		"count", len(entities),
		"tagged", h.tagged,
	)
	return nil
}

// Load reads the file back. The layout is detected from the header row.
func (h *CSVHandler) Load(ctx context.Context) ([]entity.Entity, error) {
	out, err := readFile(ctx, "csv.load", h.path, csvfile.Read)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug("entities loaded", "format", FormatCSV, "path", h.path, "count", len(out))
	return out, nil
}
