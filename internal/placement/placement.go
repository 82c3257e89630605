package placement

import "svw.info/salvo/internal/domain"

// Placement is a straight run of Length cells starting at Anchor along Dir.
type Placement struct {
	Anchor domain.Coord     `json:"anchor"`
	Dir    domain.Direction `json:"dir"`
	Length int              `json:"length"`
}

// Cells lists the covered coordinates, anchor first.
func (p Placement) Cells() []domain.Coord {
	out := make([]domain.Coord, p.Length)
	for i := range out {
		out[i] = p.Anchor.Step(p.Dir, i)
	}
	return out
}

// Covers reports whether p includes c.
func (p Placement) Covers(c domain.Coord) bool {
	for i := 0; i < p.Length; i++ {
		if p.Anchor.Step(p.Dir, i) == c {
			return true
		}
	}
	return false
}

// Canonical rewrites Up/Left placements to the equivalent Down/Right one.
func (p Placement) Canonical() Placement {
	switch p.Dir {
	case domain.Up:
		return Placement{Anchor: p.Anchor.Step(domain.Up, p.Length-1), Dir: domain.Down, Length: p.Length}
	case domain.Left:
		return Placement{Anchor: p.Anchor.Step(domain.Left, p.Length-1), Dir: domain.Right, Length: p.Length}
	}
	return p
}

// Fits reports whether every covered cell is on the grid and not a miss.
func Fits(g domain.Grid, p Placement) bool {
	for i := 0; i < p.Length; i++ {
		c := p.Anchor.Step(p.Dir, i)
		if !g.InBounds(c) || g.At(c) == domain.Miss {
			return false
		}
	}
	return true
}

// Legal is Fits plus, when occ is non-nil, no covered cell already holding a ship.
func Legal(g domain.Grid, p Placement, occ *Occupancy) bool {
	if !Fits(g, p) {
		return false
	}
	if occ == nil {
		return true
	}
	for i := 0; i < p.Length; i++ {
		if occ.At(p.Anchor.Step(p.Dir, i)) != 0 {
			return false
		}
	}
	return true
}

// Through returns every legal placement of length along both axes that covers hit.
func Through(g domain.Grid, occ *Occupancy, length int, hit domain.Coord) []Placement {
	var out []Placement
	for _, dir := range domain.Axes {
		for back := 0; back < length; back++ {
			p := Placement{Anchor: hit.Step(dir, -back), Dir: dir, Length: length}
			if Legal(g, p, occ) {
				out = append(out, p)
			}
		}
	}
	return out
}
