package core

import "github.com/JonMunkholm/entities/internal/entity"

// Match pairs a record from the left set with one from the right set that
// shares its ID and Name.
type Match struct {
	Left  entity.Entity
	Right entity.Entity
}

// Compare returns every (a, b) pair with equal ID and Name, in left order
// then right order. Variant fields are not compared. Repeated identifiers
// yield repeated matches.
func Compare(left, right []entity.Entity) []Match {
	var out []Match
	for _, a := range left {
		for _, b := range right {
			if a.ID == b.ID && a.Name == b.Name {
				out = append(out, Match{Left: a, Right: b})
			}
		}
	}
	return out
}
