package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"svw.info/salvo/internal/domain"
	"svw.info/salvo/internal/observability"
	"svw.info/salvo/internal/ports"
	"svw.info/salvo/internal/validator"
)

// Strategy names how Recommend scores the board before selecting a target.
type Strategy string

const (
	// Basic selects on the independent heatmap.
	Basic Strategy = "basic"
	// Improved selects on the joint search, falling back to Basic when it accepts nothing.
	Improved Strategy = "improved"
	// InfoGain selects on the information-gain board built from Improved's probabilities.
	InfoGain Strategy = "gain"
)

var (
	errNotConfigured = errors.New("usecase dependency not configured")
	// ErrUnknownStrategy reports a strategy name Recommend does not implement.
	ErrUnknownStrategy = errors.New("unknown strategy")
)

func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case Basic, Improved, InfoGain:
		return st, nil
	case "":
		return Improved, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownStrategy)
}

type Service struct {
	Estimator ports.Estimator
	Joint     ports.JointEstimator
	Gainer    ports.GainEstimator
	Selector  ports.Selector
	Storage   ports.Storage

	logger *slog.Logger
	tracer trace.Tracer
}

func NewService(e ports.Estimator, j ports.JointEstimator, g ports.GainEstimator, sel ports.Selector, st ports.Storage) *Service {
	return &Service{
		Estimator: e,
		Joint:     j,
		Gainer:    g,
		Selector:  sel,
		Storage:   st,
		logger:    slog.Default().With(slog.String("component", "usecase")),
		tracer:    otel.Tracer(observability.TracerName),
	}
}

// Recommendation is a chosen target with the board it was chosen from.
type Recommendation struct {
	Target   domain.Coord `json:"target"`
	Strategy Strategy     `json:"strategy"`
	// Board is what the selector ran on: a heatmap, joint probabilities or gains.
	Board domain.Board `json:"board"`
	// FellBack is set when Improved or InfoGain had to use the independent heatmap.
	FellBack bool        `json:"fellBack"`
	Stats    ports.Stats `json:"stats"`
}

func (u *Service) start(ctx context.Context, op string, g domain.Grid, ships domain.Catalog) (context.Context, trace.Span) {
	tr := u.tracer
	if tr == nil {
		tr = otel.Tracer(observability.TracerName)
	}
	return tr.Start(ctx, "usecase."+op, trace.WithAttributes(
		attribute.Int("grid.size", g.Size()),
		attribute.Int("fleet.ships", len(ships)),
	))
}

func (u *Service) log() *slog.Logger {
	if u.logger == nil {
		return slog.Default()
	}
	return u.logger
}

func (u *Service) finish(span trace.Span, op string, began time.Time, err error) {
	d := time.Since(began)
	observability.ObserveEstimate(op, d, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		u.log().Debug("operation failed", slog.String("op", op), slog.String("error", err.Error()))
	} else {
		u.log().Debug("operation done", slog.String("op", op), slog.Duration("duration", d))
	}
	span.End()
}

func (u *Service) Independent(ctx context.Context, g domain.Grid, ships domain.Catalog) (b domain.Board, err error) {
	if u.Estimator == nil {
		return domain.Board{}, errNotConfigured
	}
	began := time.Now()
	_, span := u.start(ctx, "independent", g, ships)
	defer func() { u.finish(span, "independent", began, err) }()
	return u.Estimator.Estimate(g, ships)
}

func (u *Service) JointEstimate(ctx context.Context, g domain.Grid, ships domain.Catalog) (res ports.JointResult, err error) {
	if u.Joint == nil {
		return nil, errNotConfigured
	}
	began := time.Now()
	ctx, span := u.start(ctx, "joint", g, ships)
	defer func() { u.finish(span, "joint", began, err) }()

	res, err = u.Joint.Estimate(ctx, g, ships)
	if err != nil {
		return nil, err
	}
	st := res.Statistics()
	observability.ObserveSearch(st)
	span.SetAttributes(
		attribute.Int("search.listed", st.Listed),
		attribute.Int("search.accepted", st.Accepted),
		attribute.Int("search.tried", st.Tried),
		attribute.Bool("search.truncated", st.Truncated),
	)
	u.log().Debug("joint search",
		slog.Int("listed", st.Listed),
		slog.Int("accepted", st.Accepted),
		slog.Bool("truncated", st.Truncated))
	return res, nil
}

func (u *Service) Gain(ctx context.Context, g domain.Grid, probs domain.Board, ships domain.Catalog) (b domain.Board, err error) {
	if u.Gainer == nil {
		return domain.Board{}, errNotConfigured
	}
	began := time.Now()
	_, span := u.start(ctx, "gain", g, ships)
	defer func() { u.finish(span, "gain", began, err) }()
	return u.Gainer.Estimate(g, probs, ships)
}

// Probabilities returns the joint search's per-cell probabilities, or the independent
// heatmap when the search accepted no arrangement. fellBack reports the latter.
func (u *Service) Probabilities(ctx context.Context, g domain.Grid, ships domain.Catalog) (b domain.Board, st ports.Stats, fellBack bool, err error) {
	res, err := u.JointEstimate(ctx, g, ships)
	if err != nil {
		return domain.Board{}, ports.Stats{}, false, err
	}
	st = res.Statistics()
	if st.Accepted > 0 {
		return res.Probabilities(), st, false, nil
	}
	observability.ObserveFallback()
	u.log().Info("joint search accepted nothing, using independent heatmap", slog.Int("listed", st.Listed))
	b, err = u.Independent(ctx, g, ships)
	return b, st, true, err
}

// Recommend picks the next cell to probe with the given strategy.
func (u *Service) Recommend(ctx context.Context, g domain.Grid, ships domain.Catalog, s Strategy) (rec Recommendation, err error) {
	if u.Selector == nil {
		return Recommendation{}, errNotConfigured
	}
	began := time.Now()
	ctx, span := u.start(ctx, "recommend", g, ships)
	span.SetAttributes(attribute.String("strategy", string(s)))
	defer func() { u.finish(span, "recommend", began, err) }()

	rec.Strategy = s
	switch s {
	case Basic:
		rec.Board, err = u.Independent(ctx, g, ships)
	case Improved:
		rec.Board, rec.Stats, rec.FellBack, err = u.Probabilities(ctx, g, ships)
	case InfoGain:
		var probs domain.Board
		probs, rec.Stats, rec.FellBack, err = u.Probabilities(ctx, g, ships)
		if err == nil {
			rec.Board, err = u.Gain(ctx, g, probs, ships)
		}
	default:
		err = fmt.Errorf("%q: %w", s, ErrUnknownStrategy)
	}
	if err != nil {
		return Recommendation{}, err
	}

	rec.Target, err = u.Selector.Select(rec.Board, g)
	if err != nil {
		return Recommendation{}, err
	}
	span.SetAttributes(attribute.Int("target.row", rec.Target.Row), attribute.Int("target.col", rec.Target.Col))
	return rec, nil
}

// Persistence
// Save stores p after checking it is a position the estimators accept.
func (u *Service) Save(ctx context.Context, p *domain.Position) error {
	if u.Storage == nil {
		return errNotConfigured
	}
	if p != nil {
		if err := validator.New().Position(p.Grid, p.Ships); err != nil {
			return err
		}
	}
	return u.Storage.Save(ctx, p)
}
func (u *Service) Load(ctx context.Context, id string) (*domain.Position, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.Load(ctx, id)
}
func (u *Service) List(ctx context.Context) ([]domain.PositionMeta, error) {
	if u.Storage == nil {
		return nil, errNotConfigured
	}
	return u.Storage.List(ctx)
}
