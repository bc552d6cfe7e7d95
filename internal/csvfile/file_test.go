package csvfile

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/JonMunkholm/entities/internal/entity"
	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func sampleEntities() []entity.Entity {
	return []entity.Entity{
		entity.NewVehicle("1", "Car A", "Model X"),
		entity.NewPedestrian("2", "John Doe", 30),
		entity.NewVehicle("3", "Car B", "Model Y"),
		entity.NewPedestrian("4", "Jane Doe", 25),
	}
}

func TestWrite_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if got := buf.String(); got != "Entity ID,Name,Model/Age\n" {
		t.Errorf("Write() = %q, want header only", got)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Read() returned %d records, want 0", len(got))
	}
}

func TestWrite_Rows(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleEntities()[:2], false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := "Entity ID,Name,Model/Age\n1,Car A,Model X\n2,John Doe,30\n"
	if buf.String() != want {
		t.Errorf("Write() = %q, want %q", buf.String(), want)
	}
}

func TestWrite_Tagged(t *testing.T) {
	var buf bytes.Buffer
	e := []entity.Entity{entity.NewLightStateAction("1", "Light State Action", "myLights")}
	if err := Write(&buf, e, true); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := "Entity ID,Name,Model/Age,Type\n1,Light State Action,myLights,light_state_action\n"
	if buf.String() != want {
		t.Errorf("Write() = %q, want %q", buf.String(), want)
	}
}

func TestWrite_RejectsInvalidRecord(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []entity.Entity{entity.NewPedestrian("1", "X", -3)}, false)
	if !errors.Is(err, entity.ErrParse) {
		t.Errorf("Write() error = %v, want parse error", err)
	}
}

func TestReadWrite_RoundTrip(t *testing.T) {
	for _, tagged := range []bool{false, true} {
		var buf bytes.Buffer
		if err := Write(&buf, sampleEntities(), tagged); err != nil {
			t.Fatalf("Write(tagged=%v) error = %v", tagged, err)
		}

		got, err := Read(&buf)
		if err != nil {
			t.Fatalf("Read(tagged=%v) error = %v", tagged, err)
		}
		if diff := cmp.Diff(sampleEntities(), got); diff != "" {
			t.Errorf("round trip (tagged=%v) mismatch (-want +got):\n%s", tagged, diff)
		}
	}
}

func TestReadWrite_EmptyValuesKeepCount(t *testing.T) {
	in := []entity.Entity{
		entity.NewVehicle("", "", ""),
		entity.NewPedestrian("2", "x", 1),
	}

	var buf bytes.Buffer
	if err := Write(&buf, in, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestReadWrite_LossyValues(t *testing.T) {
	var buf bytes.Buffer
	in := []entity.Entity{entity.NewVehicle("1", "a\r\nb", "Model X")}
	if err := Write(&buf, in, false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "a\nb" {
		t.Errorf("Read() = %v, want name %q", got, "a\nb")
	}
}

func TestRead(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     []entity.Entity
		wantErr  bool
		wantLine int
	}{
		{
			name:  "BOM before header",
			input: "\xEF\xBB\xBFEntity ID,Name,Model/Age\n1,Car A,Model X\n",
			want:  []entity.Entity{entity.NewVehicle("1", "Car A", "Model X")},
		},
		{
			name:  "legacy light header",
			input: "Entity ID,Name,UserDefinedLightType\n1,Light State Action,myLights\n",
			want:  []entity.Entity{entity.NewVehicle("1", "Light State Action", "myLights")},
		},
		{
			name:  "blank lines skipped",
			input: "Entity ID,Name,Model/Age\n\n1,Car A,Model X\n   \n2,John Doe,30\n",
			want: []entity.Entity{
				entity.NewVehicle("1", "Car A", "Model X"),
				entity.NewPedestrian("2", "John Doe", 30),
			},
		},
		{
			name:  "empty fields kept",
			input: "Entity ID,Name,Model/Age\n,,\n",
			want:  []entity.Entity{entity.NewVehicle("", "", "")},
		},
		{
			name:  "header case and quotes ignored",
			input: "'entity id', NAME ,model/age\n1,Car A,Model X\n",
			want:  []entity.Entity{entity.NewVehicle("1", "Car A", "Model X")},
		},
		{
			name:  "quoted comma",
			input: "Entity ID,Name,Model/Age\n1,\"Doe, John\",30\n",
			want:  []entity.Entity{entity.NewPedestrian("1", "Doe, John", 30)},
		},
		{
			name:  "invalid utf-8 replaced",
			input: "Entity ID,Name,Model/Age\n1,Ca\x80r,Model X\n",
			want:  []entity.Entity{entity.NewVehicle("1", "Ca?r", "Model X")},
		},
		{
			name:     "empty input",
			input:    "",
			wantErr:  true,
			wantLine: 1,
		},
		{
			name:     "headerless file",
			input:    "1,Car A,Model X\n2,John Doe,30\n",
			wantErr:  true,
			wantLine: 1,
		},
		{
			name:     "three columns with foreign labels",
			input:    "id,name,value\n1,Car A,Model X\n",
			wantErr:  true,
			wantLine: 1,
		},
		{
			name:     "unknown header",
			input:    "a,b\n1,2\n",
			wantErr:  true,
			wantLine: 1,
		},
		{
			name:     "short row",
			input:    "Entity ID,Name,Model/Age\n1,Car A,Model X\n2,John Doe\n",
			wantErr:  true,
			wantLine: 3,
		},
		{
			name:     "bad tag",
			input:    "Entity ID,Name,Model/Age,Type\n1,Car A,Model X,boat\n",
			wantErr:  true,
			wantLine: 2,
		},
		{
			name:     "bare quote",
			input:    "Entity ID,Name,Model/Age\n1,Car \"A,Model X\n",
			wantErr:  true,
			wantLine: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Read() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var oe *entity.OpError
				if !errors.As(err, &oe) || oe.Kind != entity.KindParse {
					t.Fatalf("Read() error = %v, want parse OpError", err)
				}
				if oe.Line != tt.wantLine {
					t.Errorf("Read() error line = %d, want %d", oe.Line, tt.wantLine)
				}
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Read() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadWrite_TaggedProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.SliceOf(rapid.Custom(drawEntity)).Draw(t, "entities")

		var buf bytes.Buffer
		if err := Write(&buf, in, true); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
		got, err := Read(&buf)
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		if len(in) == 0 && len(got) == 0 {
			return
		}
		if diff := cmp.Diff(in, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}
