package web

import (
	"fmt"
	"time"

	"github.com/JonMunkholm/entities/internal/core"
	"github.com/JonMunkholm/entities/internal/entity"
)

// entityJSON is the wire shape of one record. Only the field matching Kind
// is set.
type entityJSON struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Model     *string `json:"model,omitempty"`
	Age       *int    `json:"age,omitempty"`
	LightType *string `json:"light_type,omitempty"`
}

func toEntityJSON(e entity.Entity) entityJSON {
	out := entityJSON{ID: e.ID, Name: e.Name, Kind: string(e.Kind)}
	switch e.Kind {
	case entity.KindVehicle:
		out.Model = &e.Model
	case entity.KindPedestrian:
		out.Age = &e.Age
	case entity.KindLightStateAction:
		out.LightType = &e.LightType
	}
	return out
}

func toEntityJSONs(in []entity.Entity) []entityJSON {
	out := make([]entityJSON, len(in))
	for i, e := range in {
		out[i] = toEntityJSON(e)
	}
	return out
}

func (j entityJSON) toEntity() (entity.Entity, error) {
	kind, err := entity.ParseKind(j.Kind)
	if err != nil {
		return entity.Entity{}, err
	}

	var e entity.Entity
	switch kind {
	case entity.KindVehicle:
		if j.Model == nil {
			return entity.Entity{}, fmt.Errorf("entity %q: vehicle needs a model", j.ID)
		}
		e = entity.NewVehicle(j.ID, j.Name, *j.Model)
	case entity.KindPedestrian:
		if j.Age == nil {
			return entity.Entity{}, fmt.Errorf("entity %q: pedestrian needs an age", j.ID)
		}
		e = entity.NewPedestrian(j.ID, j.Name, *j.Age)
	case entity.KindLightStateAction:
		if j.LightType == nil {
			return entity.Entity{}, fmt.Errorf("entity %q: light state action needs a light_type", j.ID)
		}
		e = entity.NewLightStateAction(j.ID, j.Name, *j.LightType)
	}
	return e, e.Validate()
}

// entitiesRequest is the body of save and cross-check requests.
type entitiesRequest struct {
	Entities []entityJSON `json:"entities"`
}

func (r entitiesRequest) toEntities() ([]entity.Entity, error) {
	out := make([]entity.Entity, 0, len(r.Entities))
	for i, j := range r.Entities {
		e, err := j.toEntity()
		if err != nil {
			return nil, fmt.Errorf("entities[%d]: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

type saveResultJSON struct {
	ID         string    `json:"id"`
	Format     string    `json:"format"`
	Count      int       `json:"count"`
	DurationMS int64     `json:"duration_ms"`
	SavedAt    time.Time `json:"saved_at"`
}

func toSaveResultJSON(r core.SaveResult) saveResultJSON {
	return saveResultJSON{
		ID:         r.ID.String(),
		Format:     r.Format,
		Count:      r.Count,
		DurationMS: r.Duration.Milliseconds(),
		SavedAt:    r.SavedAt,
	}
}

type matchJSON struct {
	Left  entityJSON `json:"left"`
	Right entityJSON `json:"right"`
}

type crossCheckJSON struct {
	Left       string      `json:"left"`
	Right      string      `json:"right"`
	LeftCount  int         `json:"left_count"`
	RightCount int         `json:"right_count"`
	Matches    []matchJSON `json:"matches"`
}

func toCrossCheckJSON(r core.CrossCheckResult) crossCheckJSON {
	out := crossCheckJSON{
		Left:       r.Left,
		Right:      r.Right,
		LeftCount:  r.LeftCount,
		RightCount: r.RightCount,
		Matches:    make([]matchJSON, len(r.Matches)),
	}
	for i, m := range r.Matches {
		out.Matches[i] = matchJSON{Left: toEntityJSON(m.Left), Right: toEntityJSON(m.Right)}
	}
	return out
}
