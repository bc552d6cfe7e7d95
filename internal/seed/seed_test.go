package seed

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/JonMunkholm/entities/internal/entity"
	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	got := Default()
	if len(got) != 5 {
		t.Fatalf("Default() len = %d, want 5", len(got))
	}
	for _, e := range got {
		if err := e.Validate(); err != nil {
			t.Errorf("Default() record %v invalid: %v", e, err)
		}
	}

	got[0].Name = "mutated"
	if Default()[0].Name != "Car A" {
		t.Error("Default() should return a fresh slice")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    []entity.Entity
		wantErr bool
	}{
		{
			name: "inferred kinds",
			doc: `entities:
  - {id: "1", name: Car A, model: Model X}
  - {id: "2", name: John Doe, age: 30}
  - {id: "5", name: Light State Action, light_type: myLights}
`,
			want: []entity.Entity{
				entity.NewVehicle("1", "Car A", "Model X"),
				entity.NewPedestrian("2", "John Doe", 30),
				entity.NewLightStateAction("5", "Light State Action", "myLights"),
			},
		},
		{
			name: "explicit kind keeps digit-only model a vehicle",
			doc: `entities:
  - {id: "7", name: Truck, kind: vehicle, model: "12345"}
`,
			want: []entity.Entity{entity.NewVehicle("7", "Truck", "12345")},
		},
		{
			name: "empty document",
			doc:  "",
			want: []entity.Entity{},
		},
		{
			name:    "unknown key",
			doc:     "entities:\n  - {id: \"1\", name: A, colour: red, model: M}\n",
			wantErr: true,
		},
		{
			name:    "two variant fields",
			doc:     "entities:\n  - {id: \"1\", name: A, model: M, age: 3}\n",
			wantErr: true,
		},
		{
			name:    "no variant field",
			doc:     "entities:\n  - {id: \"1\", name: A}\n",
			wantErr: true,
		},
		{
			name:    "kind without its field",
			doc:     "entities:\n  - {id: \"1\", name: A, kind: pedestrian, model: M}\n",
			wantErr: true,
		},
		{
			name:    "unknown kind",
			doc:     "entities:\n  - {id: \"1\", name: A, kind: boat, model: M}\n",
			wantErr: true,
		},
		{
			name:    "negative age",
			doc:     "entities:\n  - {id: \"1\", name: A, age: -1}\n",
			wantErr: true,
		},
		{
			name:    "missing id",
			doc:     "entities:\n  - {name: A, model: M}\n",
			wantErr: true,
		},
		{
			name:    "malformed yaml",
			doc:     "entities: [",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, entity.ErrParse) {
					t.Errorf("Parse() error = %v, want parse error", err)
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	got, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if diff := cmp.Diff(Default(), got); diff != "" {
		t.Errorf("Load(\"\") mismatch (-want +got):\n%s", diff)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "seed.yaml")
	if err := os.WriteFile(path, []byte("entities:\n  - {id: \"9\", name: Bus, model: B1}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if diff := cmp.Diff([]entity.Entity{entity.NewVehicle("9", "Bus", "B1")}, got); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("entities:\n  - {id: \"9\"}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = Load(bad)
	var oe *entity.OpError
	if !errors.As(err, &oe) || oe.Path != bad {
		t.Errorf("Load(bad) error = %v, want parse error with path", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, entity.ErrIO) {
		t.Errorf("Load(missing) error = %v, want io error", err)
	}
}
