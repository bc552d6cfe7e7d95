// Package entity defines the records persisted by this module.
//
// An Entity is a flat tagged union: every record carries an identifier and a
// name, plus exactly one variant-specific field selected by its Kind. The set
// of kinds is closed; code that needs per-variant behavior switches on Kind.
package entity

import (
	"fmt"
	"strconv"
)

// Kind identifies which variant an Entity holds.
type Kind string

const (
	KindVehicle          Kind = "vehicle"
	KindPedestrian       Kind = "pedestrian"
	KindLightStateAction Kind = "light_state_action"
)

// Kinds lists every supported variant in declaration order.
var Kinds = []Kind{KindVehicle, KindPedestrian, KindLightStateAction}

// ParseKind converts a textual kind (as written to a tagged CSV column or
// a JSON body) into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindVehicle, KindPedestrian, KindLightStateAction:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown entity kind %q", s)
}

// Entity is a single record.
//
// ID is opaque: integer identifiers are carried as their decimal text.
// Only the field matching Kind is meaningful; the others stay zero.
type Entity struct {
	ID   string
	Name string
	Kind Kind

	Model     string // KindVehicle
	Age       int    // KindPedestrian, non-negative
	LightType string // KindLightStateAction (userDefinedLightType)
}

// NewVehicle returns a vehicle record.
func NewVehicle(id, name, model string) Entity {
	return Entity{ID: id, Name: name, Kind: KindVehicle, Model: model}
}

// NewPedestrian returns a pedestrian record.
func NewPedestrian(id, name string, age int) Entity {
	return Entity{ID: id, Name: name, Kind: KindPedestrian, Age: age}
}

// NewLightStateAction returns a light-state action record.
func NewLightStateAction(id, name, lightType string) Entity {
	return Entity{ID: id, Name: name, Kind: KindLightStateAction, LightType: lightType}
}

// Validate reports whether the record can be encoded.
func (e Entity) Validate() error {
	switch e.Kind {
	case KindVehicle, KindLightStateAction:
		return nil
	case KindPedestrian:
		if e.Age < 0 {
			return &OpError{Op: "entity.validate", Kind: KindParse, Err: fmt.Errorf("pedestrian %q: negative age %d", e.ID, e.Age)}
		}
		return nil
	default:
		return &OpError{Op: "entity.validate", Kind: KindParse, Err: fmt.Errorf("entity %q: unknown kind %q", e.ID, e.Kind)}
	}
}

// VariantValue returns the variant-specific field as text. Flat encodings
// emit it after the base fields.
func (e Entity) VariantValue() string {
	switch e.Kind {
	case KindVehicle:
		return e.Model
	case KindPedestrian:
		return strconv.Itoa(e.Age)
	case KindLightStateAction:
		return e.LightType
	}
	return ""
}

// Equal reports whether two records hold the same values.
func (e Entity) Equal(other Entity) bool {
	return e == other
}

// String implements fmt.Stringer for log output.
func (e Entity) String() string {
	return fmt.Sprintf("%s{id=%s name=%q %s}", e.Kind, e.ID, e.Name, e.VariantValue())
}
