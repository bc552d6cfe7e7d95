package core

import (
	"strconv"
	"testing"

	"github.com/JonMunkholm/entities/internal/entity"
	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"
)

func TestCompare(t *testing.T) {
	car := entity.NewVehicle("1", "Car A", "Model X")
	john := entity.NewPedestrian("2", "John Doe", 30)

	tests := []struct {
		name        string
		left, right []entity.Entity
		want        []Match
	}{
		{
			name:  "same id and name",
			left:  []entity.Entity{car},
			right: []entity.Entity{car},
			want:  []Match{{Left: car, Right: car}},
		},
		{
			name:  "name differs",
			left:  []entity.Entity{car},
			right: []entity.Entity{entity.NewVehicle("1", "Car B", "Model X")},
		},
		{
			name:  "id differs",
			left:  []entity.Entity{car},
			right: []entity.Entity{entity.NewVehicle("9", "Car A", "Model X")},
		},
		{
			name:  "variant ignored",
			left:  []entity.Entity{john},
			right: []entity.Entity{entity.NewVehicle("2", "John Doe", "30")},
			want:  []Match{{Left: john, Right: entity.NewVehicle("2", "John Doe", "30")}},
		},
		{
			name:  "repeated ids repeat matches",
			left:  []entity.Entity{car, car},
			right: []entity.Entity{car},
			want:  []Match{{Left: car, Right: car}, {Left: car, Right: car}},
		},
		{
			name:  "left order then right order",
			left:  []entity.Entity{john, car},
			right: []entity.Entity{car, john},
			want:  []Match{{Left: john, Right: john}, {Left: car, Right: car}},
		},
		{
			name:  "empty side",
			left:  nil,
			right: []entity.Entity{car},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compare(tt.left, tt.right)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Compare() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompare_SelfMatchesEveryDistinctRecord(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(t, "n")
		set := make([]entity.Entity, n)
		for i := range set {
			// Distinct IDs so each record matches only itself.
			set[i] = entity.NewPedestrian(
				rapid.StringMatching(`[a-z]{0,4}`).Draw(t, "prefix")+"-"+strconv.Itoa(i),
				rapid.String().Draw(t, "name"),
				rapid.IntRange(0, 120).Draw(t, "age"),
			)
		}

		got := Compare(set, set)
		if len(got) != n {
			t.Fatalf("Compare(set, set) = %d matches, want %d", len(got), n)
		}
		for i, m := range got {
			if m.Left != set[i] || m.Right != set[i] {
				t.Fatalf("match %d = %v, want record %v paired with itself", i, m, set[i])
			}
		}
	})
}
