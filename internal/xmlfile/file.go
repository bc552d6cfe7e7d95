package xmlfile

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/JonMunkholm/entities/internal/entity"
)

// DefaultIndent matches the three-space pretty printing of earlier files.
const DefaultIndent = "   "

// Write emits an XML declaration and an <Entities> root holding one <Entity>
// per record, in input order. A non-empty indent pretty-prints the output;
// it does not change the logical structure.
func Write(w io.Writer, entities []entity.Entity, indent string) error {
	doc := Document{Entities: make([]Element, 0, len(entities))}
	for i, e := range entities {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		if err := checkText(e); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		doc.Entities = append(doc.Entities, EncodeElement(e))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	if indent != "" {
		enc.Indent("", indent)
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode entities: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\n")
	return err
}

// Read parses a document produced by Write. The root must be <Entities>.
func Read(r io.Reader) ([]entity.Entity, error) {
	var doc Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		var se *xml.SyntaxError
		if errors.As(err, &se) {
			return nil, entity.ParseErrorf("xml.read", se.Line, "%s", se.Msg)
		}
		if errors.Is(err, io.EOF) {
			return nil, entity.ParseErrorf("xml.read", 0, "empty document")
		}
		var ue xml.UnmarshalError
		if errors.As(err, &ue) {
			return nil, entity.ParseErrorf("xml.read", 0, "%s", string(ue))
		}
		return nil, &entity.OpError{Op: "xml.read", Kind: entity.KindIO, Err: err}
	}

	out := make([]entity.Entity, 0, len(doc.Entities))
	for i, el := range doc.Entities {
		e, err := DecodeElement(el)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i+1, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// checkText rejects values that XML 1.0 cannot carry. encoding/xml would
// otherwise write U+FFFD in their place and the file would load back with
// different data.
func checkText(e entity.Entity) error {
	fields := []struct{ name, value string }{
		{"id", e.ID},
		{"Name", e.Name},
		{"Model", e.Model},
		{"LightType", e.LightType},
	}
	for _, f := range fields {
		if i := invalidCharAt(f.value); i >= 0 {
			return entity.ParseErrorf("xml.write", 0, "entity %q: %s has a character XML cannot represent at byte %d", e.ID, f.name, i)
		}
	}
	return nil
}

// invalidCharAt returns the byte offset of the first rune outside the XML 1.0
// Char production, or -1.
func invalidCharAt(s string) int {
	for i, r := range s {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(s[i:]); size == 1 {
				return i
			}
		}
		if !isXMLChar(r) {
			return i
		}
	}
	return -1
}

func isXMLChar(r rune) bool {
	return r == 0x09 || r == 0x0A || r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
