package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"svw.info/salvo/internal/domain"
)

// MaxGridSize caps the board side; every preset fits with room to spare.
const MaxGridSize = 32

// MaxShips is the largest catalog the joint search can track in its fixed-ship bitset.
const MaxShips = 64

// validate is shared by every Validator; validator.Validate caches struct metadata.
var validate = validator.New()

// Validator checks positions and boards before they reach an estimator.
type Validator struct{}

func New() *Validator { return &Validator{} }

// Position checks the grid shape and the fleet against it.
func (v *Validator) Position(g domain.Grid, ships domain.Catalog) error {
	if g.Size() < 1 || g.Size() > MaxGridSize {
		return fmt.Errorf("grid size %d not in 1..%d: %w", g.Size(), MaxGridSize, domain.ErrDimensionMismatch)
	}
	return Catalog(ships, g.Size())
}

// Boards checks that a score board lines up with the grid it describes.
func (v *Validator) Boards(g domain.Grid, b domain.Board) error {
	if b.Size != g.Size() || len(b.Values) != g.Size() {
		return fmt.Errorf("board %d vs grid %d: %w", b.Size, g.Size(), domain.ErrDimensionMismatch)
	}
	for r, row := range b.Values {
		if len(row) != g.Size() {
			return fmt.Errorf("board row %d has %d cells: %w", r, len(row), domain.ErrDimensionMismatch)
		}
	}
	return nil
}

// Catalog rejects empty fleets, duplicate or blank names, non-positive lengths and
// ships longer than the board side.
func Catalog(ships domain.Catalog, size int) error {
	if len(ships) == 0 {
		return fmt.Errorf("empty catalog: %w", domain.ErrInvalidCatalog)
	}
	if len(ships) > MaxShips {
		return fmt.Errorf("%d ships exceeds %d: %w", len(ships), MaxShips, domain.ErrInvalidCatalog)
	}
	seen := make(map[string]struct{}, len(ships))
	for i, s := range ships {
		if err := validate.Struct(s); err != nil {
			return fmt.Errorf("ship %d: %v: %w", i, err, domain.ErrInvalidCatalog)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("duplicate ship %q: %w", s.Name, domain.ErrInvalidCatalog)
		}
		seen[s.Name] = struct{}{}
		if s.Length > size {
			return fmt.Errorf("ship %q length %d exceeds board %d: %w", s.Name, s.Length, size, domain.ErrInvalidCatalog)
		}
	}
	return nil
}
