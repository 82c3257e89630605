package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"svw.info/salvo/internal/domain"
)

// FS stores positions as JSON files grouped by board size: dir/<n>x<n>/<id>.json.
type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

func sizeDir(n int) string { return fmt.Sprintf("%dx%d", n, n) }

func (s *FS) pathFor(id string, size int) string {
	return filepath.Join(s.dir, sizeDir(size), strings.TrimSpace(id)+".json")
}

// prepare fills in a fresh ID and timestamp when the caller left them empty.
func prepare(p *domain.Position) error {
	if p == nil {
		return errors.New("invalid position: nil")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	} else if _, err := uuid.Parse(p.ID); err != nil {
		return fmt.Errorf("invalid position id %q: %w", p.ID, err)
	}
	if p.CreatedAt == 0 {
		p.CreatedAt = time.Now().UnixNano()
	}
	return nil
}

func (s *FS) Save(ctx context.Context, p *domain.Position) error {
	if err := prepare(p); err != nil {
		return err
	}
	target := s.pathFor(p.ID, p.Grid.Size())
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	f, err := os.Create(target)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return err
	}
	return s.dropStale(p.ID, target)
}

// dropStale removes copies of id left in other size folders by an earlier save.
func (s *FS) dropStale(id, keep string) error {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*", id+".json"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if m == keep {
			continue
		}
		if err := os.Remove(m); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (s *FS) Load(ctx context.Context, id string) (*domain.Position, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%q: %w", id, domain.ErrNotFound)
	}
	matches, err := filepath.Glob(filepath.Join(s.dir, "*", id+".json"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrNotFound)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, err
	}
	var out domain.Position
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *FS) List(ctx context.Context) ([]domain.PositionMeta, error) {
	type m struct {
		ID        string `json:"id"`
		Name      string `json:"name,omitempty"`
		CreatedAt int64  `json:"createdAt"`
		Grid      struct {
			Size int `json:"size"`
		} `json:"grid"`
	}

	buckets, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []domain.PositionMeta
	for _, b := range buckets {
		if !b.IsDir() {
			continue
		}
		ents, err := os.ReadDir(filepath.Join(s.dir, b.Name()))
		if err != nil {
			return nil, err
		}
		for _, e := range ents {
			name := e.Name()
			if e.IsDir() || !strings.HasSuffix(name, ".json") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(s.dir, b.Name(), name))
			if err != nil {
				continue
			}
			var mm m
			if err := json.Unmarshal(data, &mm); err != nil || mm.ID == "" {
				continue
			}
			out = append(out, domain.PositionMeta{
				ID:        mm.ID,
				Name:      mm.Name,
				Size:      mm.Grid.Size,
				CreatedAt: mm.CreatedAt,
			})
		}
	}
	sortMeta(out)
	return out, nil
}
