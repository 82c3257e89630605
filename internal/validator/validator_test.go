package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"svw.info/salvo/internal/domain"
)

func TestPosition(t *testing.T) {
	v := New()
	g := domain.NewGrid(4)

	cases := []struct {
		name  string
		grid  domain.Grid
		ships domain.Catalog
		want  error
	}{
		{"ok", g, domain.Catalog{{Name: "a", Length: 2}, {Name: "b", Length: 4}}, nil},
		{"empty", g, nil, domain.ErrInvalidCatalog},
		{"blank name", g, domain.Catalog{{Name: "", Length: 2}}, domain.ErrInvalidCatalog},
		{"zero length", g, domain.Catalog{{Name: "a", Length: 0}}, domain.ErrInvalidCatalog},
		{"duplicate", g, domain.Catalog{{Name: "a", Length: 2}, {Name: "a", Length: 3}}, domain.ErrInvalidCatalog},
		{"too long", g, domain.Catalog{{Name: "a", Length: 5}}, domain.ErrInvalidCatalog},
		{"no grid", domain.Grid{}, domain.Catalog{{Name: "a", Length: 1}}, domain.ErrDimensionMismatch},
		{"largest grid", domain.NewGrid(MaxGridSize), domain.Catalog{{Name: "a", Length: 5}}, nil},
		{"oversized grid", domain.NewGrid(MaxGridSize + 1), domain.Catalog{{Name: "a", Length: 5}}, domain.ErrDimensionMismatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Position(tc.grid, tc.ships)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCatalogShipLimit(t *testing.T) {
	ships := make(domain.Catalog, MaxShips+1)
	for i := range ships {
		ships[i] = domain.Ship{Name: string(rune('A'+i%26)) + string(rune('a'+i/26)), Length: 1}
	}
	assert.ErrorIs(t, Catalog(ships, 10), domain.ErrInvalidCatalog)
	assert.NoError(t, Catalog(ships[:MaxShips], 10))
}

func TestBoards(t *testing.T) {
	v := New()
	g := domain.NewGrid(3)
	assert.NoError(t, v.Boards(g, domain.NewBoard(3)))
	assert.ErrorIs(t, v.Boards(g, domain.NewBoard(4)), domain.ErrDimensionMismatch)

	ragged := domain.NewBoard(3)
	ragged.Values[1] = ragged.Values[1][:2]
	assert.ErrorIs(t, v.Boards(g, ragged), domain.ErrDimensionMismatch)
}
