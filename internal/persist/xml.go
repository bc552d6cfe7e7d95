package persist

import (
	"context"
	"io"

	"github.com/JonMunkholm/entities/internal/entity"
	"github.com/JonMunkholm/entities/internal/logging"
	"github.com/JonMunkholm/entities/internal/xmlfile"
)

// XMLHandler stores records in an XML file.
type XMLHandler struct {
	path   string
	indent string
}

// XMLOption configures an XMLHandler.
type XMLOption func(*XMLHandler)

// WithIndent sets the pretty-print indent. An empty string writes compact XML.
func WithIndent(indent string) XMLOption {
	return func(h *XMLHandler) { h.indent = indent }
}

// NewXMLHandler returns a handler bound to path. Output is indented with
// xmlfile.DefaultIndent unless overridden.
func NewXMLHandler(path string, opts ...XMLOption) *XMLHandler {
	h := &XMLHandler{path: path, indent: xmlfile.DefaultIndent}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var (
	_ Handler    = (*XMLHandler)(nil)
	_ FileBacked = (*XMLHandler)(nil)
)

// Format implements Handler.
func (h *XMLHandler) Format() string { return FormatXML }

// Path returns the destination file.
func (h *XMLHandler) Path() string { return h.path }

// Save rewrites the file with an <Entities> root holding every record.
func (h *XMLHandler) Save(ctx context.Context, entities ...entity.Entity) error {
	err := writeFileAtomic(ctx, "xml.save", h.path, func(w io.Writer) error {
		return xmlfile.Write(w, entities, h.indent)
	})
	if err != nil {
		return err
	}

	logging.FromContext(ctx).Debug("entities saved", "format", FormatXML, "path", h.path, "count", len(entities))
	return nil
}

// Load reads the file back.
func (h *XMLHandler) Load(ctx context.Context) ([]entity.Entity, error) {
	out, err := readFile(ctx, "xml.load", h.path, xmlfile.Read)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Debug("entities loaded", "format", FormatXML, "path", h.path, "count", len(out))
	return out, nil
}
