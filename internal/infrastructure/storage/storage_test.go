package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"svw.info/salvo/internal/domain"
	"svw.info/salvo/internal/ports"
)

func backends(t *testing.T) map[string]ports.Storage {
	t.Helper()
	db, err := OpenBadger(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return map[string]ports.Storage{
		"fs":     NewFS(t.TempDir()),
		"badger": db,
	}
}

func TestStorageResaveReplacesPosition(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			p := &domain.Position{Grid: domain.NewGrid(4), Ships: domain.Catalog{{Name: "patrol", Length: 2}}}
			require.NoError(t, st.Save(ctx, p))

			p.Grid = domain.MustParseGrid("--X--", "-----", "-----", "-----", "-----")
			require.NoError(t, st.Save(ctx, p))

			got, err := st.Load(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, 5, got.Grid.Size())

			list, err := st.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, 5, list[0].Size)
		})
	}
}

func TestStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			list, err := st.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)

			p := &domain.Position{
				Name:  "opening",
				Grid:  domain.MustParseGrid("-X-", "O--", "---"),
				Ships: domain.Catalog{{Name: "patrol", Length: 2}},
			}
			require.NoError(t, st.Save(ctx, p))
			require.NotEmpty(t, p.ID)
			require.NotZero(t, p.CreatedAt)

			q := &domain.Position{Grid: domain.NewGrid(5), Ships: domain.Catalog{{Name: "sub", Length: 3}}, CreatedAt: p.CreatedAt + 1}
			require.NoError(t, st.Save(ctx, q))

			got, err := st.Load(ctx, p.ID)
			require.NoError(t, err)
			assert.Equal(t, p.Grid.Rows(), got.Grid.Rows())
			assert.Equal(t, p.Ships, got.Ships)
			assert.Equal(t, "opening", got.Name)

			list, err = st.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, p.ID, list[0].ID)
			assert.Equal(t, 3, list[0].Size)
			assert.Equal(t, 5, list[1].Size)
		})
	}
}

func TestStorageMissing(t *testing.T) {
	ctx := context.Background()
	for name, st := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := st.Load(ctx, "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			_, err = st.Load(ctx, "../etc/passwd")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			assert.Error(t, st.Save(ctx, &domain.Position{ID: "not-a-uuid", Grid: domain.NewGrid(2)}))
			assert.Error(t, st.Save(ctx, nil))
		})
	}
}

func TestOpenBadgerRequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path is required")
}
