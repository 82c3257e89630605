package ports

import (
	"context"
	"time"

	"svw.info/salvo/internal/domain"
)

// RootStats counts the work done while one ship anchored the joint search.
type RootStats struct {
	Ship     string `json:"ship"`
	Listed   int    `json:"listed"`
	Accepted int    `json:"accepted"`
}

// Stats captures performance characteristics of an operation.
type Stats struct {
	Listed    int            `json:"listed"`
	Accepted  int            `json:"accepted"`
	Tried     int            `json:"tried"`
	Truncated bool           `json:"truncated"`
	Roots     []RootStats    `json:"roots,omitempty"`
	PerShip   map[string]int `json:"perShip,omitempty"`
	Duration  time.Duration  `json:"duration"`
}

// Estimator produces a single-ship-independent heatmap in [0,1].
type Estimator interface {
	Estimate(g domain.Grid, ships domain.Catalog) (domain.Board, error)
}

// JointResult is what a joint search hands back to callers.
type JointResult interface {
	Aggregate() domain.Board
	Probabilities() domain.Board
	ShipBoard(name string) (domain.Board, error)
	Statistics() Stats
}

// JointEstimator runs the budgeted search over mutually consistent fleets.
type JointEstimator interface {
	Estimate(ctx context.Context, g domain.Grid, ships domain.Catalog) (JointResult, error)
}

// GainEstimator ranks unknown cells by expected ambiguity reduction.
type GainEstimator interface {
	Estimate(g domain.Grid, probs domain.Board, ships domain.Catalog) (domain.Board, error)
}

// Selector picks the next cell to probe.
type Selector interface {
	Select(b domain.Board, g domain.Grid) (domain.Coord, error)
}

// Storage persists and retrieves positions as JSON.
type Storage interface {
	Save(ctx context.Context, p *domain.Position) error
	Load(ctx context.Context, id string) (*domain.Position, error)
	List(ctx context.Context) ([]domain.PositionMeta, error)
}
