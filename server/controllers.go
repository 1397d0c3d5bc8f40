package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/spektr-org/pairplot/config"
	"github.com/spektr-org/pairplot/engine"
	"github.com/spektr-org/pairplot/logger"
	"github.com/spektr-org/pairplot/query"
	"github.com/spektr-org/pairplot/schema"
)

// PlotController serves the query shell and the plot API.
type PlotController struct {
	exec    query.Executor
	plot    config.PlotConfig
	timeout time.Duration
	store   *PlotStore
}

// NewPlotController wires a controller. exec may be nil, in which case
// /api/query answers 503 and only /api/plot is usable.
func NewPlotController(exec query.Executor, plot config.PlotConfig, queryTimeout time.Duration, store *PlotStore) *PlotController {
	return &PlotController{
		exec:    exec,
		plot:    plot,
		timeout: queryTimeout,
		store:   store,
	}
}

// ── Request / response bodies ────────────────────────────────────────────────

// QueryRequest is the body of POST /api/query. Types, when given, are the
// statType answers for the result columns; otherwise they are discovered.
type QueryRequest struct {
	Query string         `json:"query"`
	Types schema.TypeMap `json:"types"`
}

// QueryResponse returns the rows alongside the plot built from them.
type QueryResponse struct {
	ID             string                 `json:"id"`
	Columns        []string               `json:"columns"`
	Rows           engine.Dataset         `json:"rows"`
	Types          schema.TypeMap         `json:"types"`
	SkippedColumns []schema.SkippedColumn `json:"skippedColumns,omitempty"`
	Spec           any                    `json:"spec,omitempty"`
	Pairs          []engine.PlottedPair   `json:"pairs,omitempty"`
	Skipped        []engine.SkippedPair   `json:"skipped,omitempty"`
}

// PlotRequest is the body of POST /api/plot.
type PlotRequest struct {
	Rows    engine.Dataset `json:"rows"`
	Types   schema.TypeMap `json:"types"`
	Columns []string       `json:"columns,omitempty"`
}

// PlotResponse is a synthesized plot.
type PlotResponse struct {
	ID      string               `json:"id"`
	Spec    any                  `json:"spec"`
	Pairs   []engine.PlottedPair `json:"pairs"`
	Skipped []engine.SkippedPair `json:"skipped,omitempty"`
}

// ── Handlers ─────────────────────────────────────────────────────────────────

// GetHome renders the query page.
func (pc *PlotController) GetHome(c echo.Context) error {
	return c.Render(http.StatusOK, "index", map[string]any{
		"QueryEnabled": pc.exec != nil,
	})
}

// GetHealth reports liveness.
func (pc *PlotController) GetHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"plots":  pc.store.Len(),
	})
}

// PostQuery executes a query and plots the columns that have a semantic type.
func (pc *PlotController) PostQuery(c echo.Context) error {
	if pc.exec == nil {
		return NewUserVisibleError(http.StatusServiceUnavailable, "no query backend configured")
	}

	var req QueryRequest
	if err := c.Bind(&req); err != nil {
		return NewUserVisibleError(http.StatusBadRequest, "invalid request body")
	}

	ctx := c.Request().Context()
	if pc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pc.timeout)
		defer cancel()
	}

	res, err := pc.exec.Execute(ctx, req.Query)
	if err != nil {
		return queryError(err)
	}

	resp := QueryResponse{Columns: res.Columns, Rows: res.Rows}
	if req.Types.Len() > 0 {
		// only columns the result actually has and the caller typed
		resp.Types = schema.FromStatType(res.Columns, schema.StatType(req.Types))
	} else {
		resp.Types, resp.SkippedColumns = schema.Discover(res.Columns, res.Rows)
	}

	// no typed column, nothing to plot: rows only
	if resp.Types.Len() == 0 {
		return c.JSON(http.StatusOK, resp)
	}

	result, err := pc.synthesize(res.Rows, resp.Types)
	if err != nil {
		return err
	}

	resp.ID = pc.store.Put(&StoredPlot{Query: req.Query, Types: resp.Types, Result: result})
	resp.Spec = result.Spec
	resp.Pairs = result.Pairs
	resp.Skipped = result.Skipped

	logger.Named("server").Infow("query plotted",
		logger.FieldPlotID, resp.ID,
		logger.FieldRows, len(res.Rows),
		logger.FieldPairs, len(result.Pairs),
		logger.FieldSkipped, len(result.Skipped))
	return c.JSON(http.StatusOK, resp)
}

// PostPlot synthesizes a plot from inline rows and types.
func (pc *PlotController) PostPlot(c echo.Context) error {
	var req PlotRequest
	if err := c.Bind(&req); err != nil {
		return NewUserVisibleError(http.StatusBadRequest, "invalid request body")
	}
	if req.Types.Len() == 0 {
		return NewUserVisibleError(http.StatusBadRequest, "types must map at least one column")
	}

	var extra []engine.Option
	if len(req.Columns) > 0 {
		extra = append(extra, engine.WithColumns(req.Columns...))
	}

	result, err := pc.synthesize(req.Rows, req.Types, extra...)
	if err != nil {
		return err
	}

	id := pc.store.Put(&StoredPlot{Types: req.Types, Result: result})
	return c.JSON(http.StatusOK, PlotResponse{
		ID:      id,
		Spec:    result.Spec,
		Pairs:   result.Pairs,
		Skipped: result.Skipped,
	})
}

// GetPlot returns a previously synthesized plot.
func (pc *PlotController) GetPlot(c echo.Context) error {
	plot, ok := pc.store.Get(c.Param("id"))
	if !ok {
		return NewUserVisibleError(http.StatusNotFound, "plot not found or expired")
	}
	return c.JSON(http.StatusOK, PlotResponse{
		ID:      plot.ID,
		Spec:    plot.Result.Spec,
		Pairs:   plot.Result.Pairs,
		Skipped: plot.Result.Skipped,
	})
}

func (pc *PlotController) synthesize(rows engine.Dataset, types schema.TypeMap, extra ...engine.Option) (*engine.Result, error) {
	opts, err := pc.plot.Options()
	if err != nil {
		return nil, synthesisError(err)
	}
	opts = append(opts, extra...)

	result, err := engine.Synthesize(rows, types, opts...)
	if err != nil {
		return nil, synthesisError(err)
	}
	return result, nil
}
