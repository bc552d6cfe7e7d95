// Package xmlfile converts entities to and from an XML element tree.
//
// Each record is an <Entity id="..."> element with a <Name> child and exactly
// one variant child: <Model>, <Age>, or
// <LightStateAction><LightType><UserDefinedLight userDefinedLightType="..."/>.
// The variant child names the kind, so decoding is exact for every variant.
package xmlfile

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/JonMunkholm/entities/internal/entity"
)

// Element is the tree node for one record.
type Element struct {
	XMLName xml.Name `xml:"Entity"`
	ID      string   `xml:"id,attr"`
	Name    *string  `xml:"Name"`

	Model            *string                  `xml:"Model"`
	Age              *string                  `xml:"Age"`
	LightStateAction *LightStateActionElement `xml:"LightStateAction"`
}

// LightStateActionElement is the nested light-state action structure.
type LightStateActionElement struct {
	LightType *LightTypeElement `xml:"LightType"`
}

// LightTypeElement wraps the user-defined light.
type LightTypeElement struct {
	UserDefinedLight *UserDefinedLightElement `xml:"UserDefinedLight"`
}

// UserDefinedLightElement carries the light type as an attribute.
type UserDefinedLightElement struct {
	Type string `xml:"userDefinedLightType,attr"`
}

// Document is the root node wrapping a collection.
type Document struct {
	XMLName  xml.Name  `xml:"Entities"`
	Entities []Element `xml:"Entity"`
}

// EncodeElement returns the element for e.
func EncodeElement(e entity.Entity) Element {
	name := e.Name
	el := Element{ID: e.ID, Name: &name}

	switch e.Kind {
	case entity.KindVehicle:
		model := e.Model
		el.Model = &model
	case entity.KindPedestrian:
		age := strconv.Itoa(e.Age)
		el.Age = &age
	case entity.KindLightStateAction:
		el.LightStateAction = &LightStateActionElement{
			LightType: &LightTypeElement{
				UserDefinedLight: &UserDefinedLightElement{Type: e.LightType},
			},
		}
	}
	return el
}

// DecodeElement builds an entity from el, selecting the variant by which
// child element is present.
func DecodeElement(el Element) (entity.Entity, error) {
	if el.Name == nil {
		return entity.Entity{}, entity.ParseErrorf("xml.decode", 0, "entity %q: missing Name", el.ID)
	}

	present := 0
	for _, ok := range []bool{el.Model != nil, el.Age != nil, el.LightStateAction != nil} {
		if ok {
			present++
		}
	}
	if present != 1 {
		return entity.Entity{}, entity.ParseErrorf("xml.decode", 0, "entity %q: expected exactly one of Model, Age, LightStateAction, found %d", el.ID, present)
	}

	switch {
	case el.Model != nil:
		return entity.NewVehicle(el.ID, *el.Name, *el.Model), nil

	case el.Age != nil:
		raw := strings.TrimSpace(*el.Age)
		age, err := strconv.Atoi(raw)
		if err != nil || age < 0 {
			return entity.Entity{}, entity.ParseErrorf("xml.decode", 0, "entity %q: invalid Age %q", el.ID, raw)
		}
		return entity.NewPedestrian(el.ID, *el.Name, age), nil

	default:
		lt := el.LightStateAction.LightType
		if lt == nil || lt.UserDefinedLight == nil {
			return entity.Entity{}, entity.ParseErrorf("xml.decode", 0, "entity %q: missing LightType/UserDefinedLight", el.ID)
		}
		return entity.NewLightStateAction(el.ID, *el.Name, lt.UserDefinedLight.Type), nil
	}
}
