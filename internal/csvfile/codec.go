// Package csvfile converts entities to and from flat CSV rows.
//
// Two layouts are supported:
//
//   - Untagged: "Entity ID","Name","Model/Age". The variant is inferred on
//     decode: a third column made only of ASCII digits is a pedestrian age,
//     anything else is a vehicle model. This is a heuristic, not a schema.
//     A vehicle whose model is all digits comes back as a pedestrian, and a
//     light-state action comes back as a vehicle.
//   - Tagged: the same three columns plus "Type", holding the entity kind.
//     Decoding dispatches on the tag and round-trips every variant.
//
// Both layouts lose two things on read: a quoted "\r\n" inside a value comes
// back as "\n" (encoding/csv normalizes it), and invalid UTF-8 comes back
// with '?' in place of the bad bytes.
package csvfile

import (
	"strconv"
	"strings"

	"github.com/JonMunkholm/entities/internal/entity"
)

// Header is the fixed header row of the untagged layout.
var Header = []string{"Entity ID", "Name", "Model/Age"}

// TaggedHeader is the header row of the tagged layout.
var TaggedHeader = []string{"Entity ID", "Name", "Model/Age", "Type"}

// EncodeRow returns the untagged row for e: base columns then the variant column.
func EncodeRow(e entity.Entity) []string {
	return []string{e.ID, e.Name, e.VariantValue()}
}

// EncodeTaggedRow returns the tagged row for e.
func EncodeTaggedRow(e entity.Entity) []string {
	return append(EncodeRow(e), string(e.Kind))
}

// DecodeRow builds an entity from an untagged row.
//
// The row must have exactly three columns. See the package documentation for
// the digit heuristic and its known misclassifications.
func DecodeRow(row []string) (entity.Entity, error) {
	if len(row) != len(Header) {
		return entity.Entity{}, entity.ParseErrorf("csv.decode", 0, "row has %d columns, expected %d", len(row), len(Header))
	}

	id, name, attr := row[0], row[1], row[2]
	if isDigits(attr) {
		age, err := strconv.Atoi(attr)
		if err != nil {
			return entity.Entity{}, entity.ParseErrorf("csv.decode", 0, "age %q out of range", attr)
		}
		return entity.NewPedestrian(id, name, age), nil
	}
	return entity.NewVehicle(id, name, attr), nil
}

// DecodeTaggedRow builds an entity from a tagged row.
func DecodeTaggedRow(row []string) (entity.Entity, error) {
	if len(row) != len(TaggedHeader) {
		return entity.Entity{}, entity.ParseErrorf("csv.decode", 0, "row has %d columns, expected %d", len(row), len(TaggedHeader))
	}

	kind, err := entity.ParseKind(strings.TrimSpace(row[3]))
	if err != nil {
		return entity.Entity{}, entity.ParseErrorf("csv.decode", 0, "%v", err)
	}

	id, name, attr := row[0], row[1], row[2]
	switch kind {
	case entity.KindVehicle:
		return entity.NewVehicle(id, name, attr), nil
	case entity.KindPedestrian:
		if !isDigits(attr) {
			return entity.Entity{}, entity.ParseErrorf("csv.decode", 0, "invalid age %q", attr)
		}
		age, err := strconv.Atoi(attr)
		if err != nil {
			return entity.Entity{}, entity.ParseErrorf("csv.decode", 0, "age %q out of range", attr)
		}
		return entity.NewPedestrian(id, name, age), nil
	case entity.KindLightStateAction:
		return entity.NewLightStateAction(id, name, attr), nil
	}
	return entity.Entity{}, entity.ParseErrorf("csv.decode", 0, "unhandled kind %q", kind)
}

// isDigits reports whether s is non-empty and made only of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
