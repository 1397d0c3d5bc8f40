package server

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/spektr-org/pairplot/engine"
	"github.com/spektr-org/pairplot/schema"
)

// StoredPlot is a synthesized plot kept for later retrieval by id.
type StoredPlot struct {
	ID        string         `json:"id"`
	Query     string         `json:"query,omitempty"`
	Types     schema.TypeMap `json:"types"`
	Result    *engine.Result `json:"result"`
	CreatedAt time.Time      `json:"createdAt"`
}

// PlotStore keeps recent plots in memory; entries expire after the TTL.
type PlotStore struct {
	plots *cache.Cache
}

// NewPlotStore creates a store whose entries live for ttl.
func NewPlotStore(ttl time.Duration) *PlotStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &PlotStore{plots: cache.New(ttl, 2*ttl)}
}

// Put stores a plot under a fresh id and returns it.
func (s *PlotStore) Put(plot *StoredPlot) string {
	plot.ID = uuid.NewString()
	plot.CreatedAt = time.Now().UTC()
	s.plots.Set(plot.ID, plot, cache.DefaultExpiration)
	return plot.ID
}

// Get returns the plot stored under id.
func (s *PlotStore) Get(id string) (*StoredPlot, bool) {
	v, found := s.plots.Get(id)
	if !found {
		return nil, false
	}
	return v.(*StoredPlot), true
}

// Len returns the number of live plots.
func (s *PlotStore) Len() int {
	return s.plots.ItemCount()
}
