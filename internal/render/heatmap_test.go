package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/salvo/internal/domain"
)

func TestHeatmapPlain(t *testing.T) {
	g := domain.MustParseGrid("X-", "-O")
	b := domain.NewBoard(2)
	b.Set(domain.Coord{Row: 0, Col: 1}, 2)
	b.Set(domain.Coord{Row: 1, Col: 0}, 1)
	target := domain.Coord{Row: 0, Col: 1}

	var buf bytes.Buffer
	require.NoError(t, Heatmap(&buf, g, b, Options{Target: &target}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "      0   1", lines[0])
	assert.Equal(t, "  0   X[99]", lines[1])
	assert.Equal(t, "  1  50   O", lines[2])
}

func TestHeatmapDimensionMismatch(t *testing.T) {
	err := Heatmap(&bytes.Buffer{}, domain.NewGrid(2), domain.NewBoard(3), Options{})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestHeatmapColourKeepsDigits(t *testing.T) {
	var buf bytes.Buffer
	b := domain.NewBoard(1)
	b.Set(domain.Coord{}, 1)
	require.NoError(t, Heatmap(&buf, domain.NewGrid(1), b, Options{Color: true}))
	assert.Contains(t, buf.String(), "99")
}
