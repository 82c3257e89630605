package httpadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"svw.info/salvo/internal/domain"
	"svw.info/salvo/internal/ports"
	"svw.info/salvo/internal/usecase"
)

type Handler struct {
	UC     *usecase.Service
	logger *slog.Logger
}

func New(uc *usecase.Service) *Handler {
	return &Handler{UC: uc, logger: slog.Default().With(slog.String("component", "http"))}
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// ---- Requests ----

// positionReq is the observed state shared by every estimation route. Ships wins
// over Preset when both are given.
type positionReq struct {
	Rows   []string      `json:"rows" binding:"required,min=1"`
	Ships  []domain.Ship `json:"ships,omitempty"`
	Preset string        `json:"preset,omitempty"`
}

func (r positionReq) parse() (domain.Grid, domain.Catalog, error) {
	g, err := domain.ParseGrid(r.Rows)
	if err != nil {
		return domain.Grid{}, nil, err
	}
	if len(r.Ships) > 0 {
		return g, domain.Catalog(r.Ships), nil
	}
	if r.Preset == "" {
		return domain.Grid{}, nil, fmt.Errorf("ships or preset required: %w", domain.ErrInvalidCatalog)
	}
	game, ok := domain.Preset(r.Preset)
	if !ok {
		return domain.Grid{}, nil, fmt.Errorf("preset %q: %w", r.Preset, domain.ErrInvalidCatalog)
	}
	return g, game.Ships, nil
}

type targetReq struct {
	positionReq
	Strategy string `json:"strategy,omitempty"`
}

type saveReq struct {
	positionReq
	Name  string `json:"name,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// ---- Responses ----

type boardResp struct {
	Board      domain.Board `json:"board"`
	DurationMs int64        `json:"durationMs"`
}

type jointResp struct {
	Board         domain.Board            `json:"board"`
	Probabilities domain.Board            `json:"probabilities"`
	Breakdown     map[string]domain.Board `json:"breakdown"`
	Stats         ports.Stats             `json:"stats"`
	DurationMs    int64                   `json:"durationMs"`
}

type gainResp struct {
	Board         domain.Board `json:"board"`
	Probabilities domain.Board `json:"probabilities"`
	FellBack      bool         `json:"fellBack"`
	DurationMs    int64        `json:"durationMs"`
}

type targetResp struct {
	usecase.Recommendation
	DurationMs int64 `json:"durationMs"`
}

type saveResp struct {
	ID string `json:"id"`
}

// ---- Handlers ----

func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error(), Code: "bad_request"})
		return false
	}
	return true
}

func (h *Handler) HandleIndependent(c *gin.Context) {
	var req positionReq
	if !h.bind(c, &req) {
		return
	}
	g, ships, err := req.parse()
	if err != nil {
		h.fail(c, err)
		return
	}
	start := time.Now()
	b, err := h.UC.Independent(c.Request.Context(), g, ships)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, boardResp{Board: b, DurationMs: time.Since(start).Milliseconds()})
}

func (h *Handler) HandleJoint(c *gin.Context) {
	var req positionReq
	if !h.bind(c, &req) {
		return
	}
	g, ships, err := req.parse()
	if err != nil {
		h.fail(c, err)
		return
	}
	start := time.Now()
	res, err := h.UC.JointEstimate(c.Request.Context(), g, ships)
	if err != nil {
		h.fail(c, err)
		return
	}
	resp := jointResp{
		Board:         res.Aggregate(),
		Probabilities: res.Probabilities(),
		Breakdown:     make(map[string]domain.Board, len(ships)),
		Stats:         res.Statistics(),
	}
	for _, name := range ships.Names() {
		b, err := res.ShipBoard(name)
		if err != nil {
			h.fail(c, err)
			return
		}
		resp.Breakdown[name] = b
	}
	resp.DurationMs = time.Since(start).Milliseconds()
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) HandleGain(c *gin.Context) {
	var req positionReq
	if !h.bind(c, &req) {
		return
	}
	g, ships, err := req.parse()
	if err != nil {
		h.fail(c, err)
		return
	}
	start := time.Now()
	ctx := c.Request.Context()
	probs, _, fellBack, err := h.UC.Probabilities(ctx, g, ships)
	if err != nil {
		h.fail(c, err)
		return
	}
	b, err := h.UC.Gain(ctx, g, probs, ships)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gainResp{Board: b, Probabilities: probs, FellBack: fellBack, DurationMs: time.Since(start).Milliseconds()})
}

func (h *Handler) HandleTarget(c *gin.Context) {
	var req targetReq
	if !h.bind(c, &req) {
		return
	}
	g, ships, err := req.parse()
	if err != nil {
		h.fail(c, err)
		return
	}
	strategy, err := usecase.ParseStrategy(req.Strategy)
	if err != nil {
		h.fail(c, err)
		return
	}
	start := time.Now()
	rec, err := h.UC.Recommend(c.Request.Context(), g, ships, strategy)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, targetResp{Recommendation: rec, DurationMs: time.Since(start).Milliseconds()})
}

func (h *Handler) HandleSave(c *gin.Context) {
	var req saveReq
	if !h.bind(c, &req) {
		return
	}
	g, ships, err := req.parse()
	if err != nil {
		h.fail(c, err)
		return
	}
	p := &domain.Position{Name: strings.TrimSpace(req.Name), Grid: g, Ships: ships, Notes: req.Notes}
	if err := h.UC.Save(c.Request.Context(), p); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, saveResp{ID: p.ID})
}

func (h *Handler) HandleLoad(c *gin.Context) {
	p, err := h.UC.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) HandleList(c *gin.Context) {
	items, err := h.UC.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if items == nil {
		items = []domain.PositionMeta{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) HandlePresets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": domain.Presets()})
}

// fail maps domain errors onto HTTP statuses.
func (h *Handler) fail(c *gin.Context, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, domain.ErrInvalidCatalog):
		status, code = http.StatusBadRequest, "invalid_catalog"
	case errors.Is(err, domain.ErrDimensionMismatch):
		status, code = http.StatusBadRequest, "dimension_mismatch"
	case errors.Is(err, domain.ErrInvalidGlyph):
		status, code = http.StatusBadRequest, "bad_grid"
	case errors.Is(err, usecase.ErrUnknownStrategy):
		status, code = http.StatusBadRequest, "unknown_strategy"
	case errors.Is(err, domain.ErrNoTargetAvailable):
		status, code = http.StatusConflict, "no_target"
	case errors.Is(err, domain.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "timeout"
	case errors.Is(err, context.Canceled):
		status, code = 499, "cancelled"
	}
	if status >= 500 {
		h.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}
