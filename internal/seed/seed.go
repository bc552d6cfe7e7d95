// Package seed supplies the records the demonstration server starts from,
// either the built-in set or a YAML file:
//
//	entities:
//	  - {id: "1", name: Car A, model: Model X}
//	  - {id: "2", name: John Doe, age: 30}
//	  - {id: "5", name: Light State Action, light_type: myLights}
//
// The kind may be given explicitly; otherwise it follows from the one
// variant field present.
package seed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/JonMunkholm/entities/internal/entity"
	"gopkg.in/yaml.v3"
)

// Default returns the built-in records. Each call returns a fresh slice.
func Default() []entity.Entity {
	return []entity.Entity{
		entity.NewVehicle("1", "Car A", "Model X"),
		entity.NewPedestrian("2", "John Doe", 30),
		entity.NewVehicle("3", "Car B", "Model Y"),
		entity.NewPedestrian("4", "Jane Doe", 25),
		entity.NewLightStateAction("5", "Light State Action", "myLights"),
	}
}

// Load reads records from path, or returns Default when path is empty.
func Load(path string) ([]entity.Entity, error) {
	if path == "" {
		return Default(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, entity.IOError("seed.load", path, err)
	}

	out, err := Parse(b)
	if err != nil {
		var oe *entity.OpError
		if errors.As(err, &oe) {
			oe.Path = path
		}
		return nil, err
	}
	return out, nil
}

type seedFile struct {
	Entities []seedRecord `yaml:"entities"`
}

type seedRecord struct {
	ID        string  `yaml:"id"`
	Name      string  `yaml:"name"`
	Kind      string  `yaml:"kind"`
	Model     *string `yaml:"model"`
	Age       *int    `yaml:"age"`
	LightType *string `yaml:"light_type"`
}

// Parse decodes a YAML seed document. Unknown keys are rejected.
func Parse(b []byte) ([]entity.Entity, error) {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	var f seedFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, &entity.OpError{Op: "seed.parse", Kind: entity.KindParse, Err: err}
	}

	out := make([]entity.Entity, 0, len(f.Entities))
	for i, r := range f.Entities {
		e, err := r.toEntity()
		if err != nil {
			return nil, &entity.OpError{
				Op:   "seed.parse",
				Kind: entity.KindParse,
				Err:  fmt.Errorf("entity %d: %w", i+1, err),
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func (r seedRecord) toEntity() (entity.Entity, error) {
	if r.ID == "" {
		return entity.Entity{}, errors.New("missing id")
	}

	kind, err := r.kind()
	if err != nil {
		return entity.Entity{}, err
	}

	var e entity.Entity
	switch kind {
	case entity.KindVehicle:
		if r.Model == nil {
			return entity.Entity{}, errors.New("vehicle needs a model")
		}
		e = entity.NewVehicle(r.ID, r.Name, *r.Model)
	case entity.KindPedestrian:
		if r.Age == nil {
			return entity.Entity{}, errors.New("pedestrian needs an age")
		}
		e = entity.NewPedestrian(r.ID, r.Name, *r.Age)
	case entity.KindLightStateAction:
		if r.LightType == nil {
			return entity.Entity{}, errors.New("light state action needs a light_type")
		}
		e = entity.NewLightStateAction(r.ID, r.Name, *r.LightType)
	}

	if err := e.Validate(); err != nil {
		return entity.Entity{}, err
	}
	return e, nil
}

func (r seedRecord) kind() (entity.Kind, error) {
	if r.Kind != "" {
		return entity.ParseKind(r.Kind)
	}

	var found []entity.Kind
	if r.Model != nil {
		found = append(found, entity.KindVehicle)
	}
	if r.Age != nil {
		found = append(found, entity.KindPedestrian)
	}
	if r.LightType != nil {
		found = append(found, entity.KindLightStateAction)
	}
	if len(found) != 1 {
		return "", fmt.Errorf("expected exactly one of model, age or light_type, got %d", len(found))
	}
	return found[0], nil
}
