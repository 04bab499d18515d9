package datasource

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/keygrid/internal/model"
)

var (
	firstNames = []string{"Ada", "Ben", "Chen", "Dana", "Emil", "Farah", "Goran", "Hana", "Ivo", "Juno", "Kai", "Lena", "Mira", "Nils", "Olga", "Pia"}
	lastNames  = []string{"Berg", "Costa", "Dahl", "Evans", "Fischer", "Garcia", "Holm", "Ito", "Jensen", "Kowalski", "Larsen", "Moreau", "Novak", "Okafor"}
	cities     = []string{"Oslo", "Paris", "Rome", "Lagos", "Lima", "Seoul", "Tokyo", "Austin", "Dublin", "Porto", "Cairo", "Quito"}
	teams      = []string{"core", "data", "infra", "mobile", "web"}
)

var epoch = time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)

// Generate returns n synthetic people rows. The same seed always yields the
// same rows, ref uuids included.
func Generate(n int, seed uint64) []model.Row {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)
	rng := rand.New(src)

	rows := make([]model.Row, n)
	for i := range rows {
		first := firstNames[rng.IntN(len(firstNames))]
		last := lastNames[rng.IntN(len(lastNames))]
		ref, _ := uuid.NewRandomFromReader(src)
		rows[i] = model.Row{
			"id":     i + 1,
			"ref":    ref.String(),
			"name":   first + " " + last,
			"email":  fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i+1),
			"city":   cities[rng.IntN(len(cities))],
			"team":   teams[rng.IntN(len(teams))],
			"age":    20 + rng.IntN(45),
			"score":  float64(rng.IntN(10000)) / 100,
			"active": rng.IntN(4) != 0,
			"joined": epoch.AddDate(0, 0, rng.IntN(3650)),
		}
	}
	return rows
}

// GeneratedColumns describes the rows Generate produces.
func GeneratedColumns() []model.Column {
	return []model.Column{
		{ID: "id", Type: model.TypeNumber, Width: 6},
		{ID: "name", Width: 18, MinWidth: 8},
		{ID: "email", Width: 28},
		{ID: "city", Width: 10},
		{ID: "team", Width: 8},
		{ID: "age", Type: model.TypeNumber, Width: 5},
		{ID: "score", Type: model.TypeNumber, Width: 7},
		{ID: "active", Type: model.TypeBoolean, Width: 8},
		{ID: "joined", Type: model.TypeDate, Width: 12},
		{ID: "ref", Width: 36},
	}
}
