package client

import (
	"context"
	"errors"
	"sync"

	"github.com/mauv0809/finmetrics/internal/models"
)

// ErrSuperseded is returned by a load when a newer one started before it
// finished. Its result has been discarded.
var ErrSuperseded = errors.New("chart load superseded by a newer selection")

// ChartLoader keeps at most one chart load in flight. Starting a load cancels
// the previous one, and a load that is no longer the latest never returns data.
type ChartLoader struct {
	client *Client

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewChartLoader creates a loader backed by c.
func (c *Client) NewChartLoader() *ChartLoader {
	return &ChartLoader{client: c}
}

// Load fetches the series for company and metric, superseding any earlier Load.
func (l *ChartLoader) Load(ctx context.Context, company, metric string) (*models.DataResponse, error) {
	return l.Begin(ctx).Fetch(company, metric)
}

// Begin supersedes the load in flight and reserves the next generation.
// Callers that fetch concurrently must call Begin in selection order and run
// only Fetch on other goroutines.
func (l *ChartLoader) Begin(ctx context.Context) *PendingLoad {
	ctx, cancel := context.WithCancel(ctx)
	return &PendingLoad{loader: l, ctx: ctx, cancel: cancel, gen: l.begin(cancel)}
}

// PendingLoad is a load that has taken its place in line but not fetched yet.
type PendingLoad struct {
	loader *ChartLoader
	ctx    context.Context
	cancel context.CancelFunc
	gen    uint64
}

// Fetch runs the load. It returns ErrSuperseded when a later Begin happened
// before the response arrived. Fetch must be called once.
func (p *PendingLoad) Fetch(company, metric string) (*models.DataResponse, error) {
	defer p.loader.end(p.gen, p.cancel)

	resp, err := p.loader.client.Data(p.ctx, company, metric)
	if !p.loader.current(p.gen) {
		return nil, ErrSuperseded
	}
	return resp, err
}

// Generation returns the number of loads started so far.
func (l *ChartLoader) Generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

func (l *ChartLoader) begin(cancel context.CancelFunc) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	l.cancel = cancel
	return l.gen
}

func (l *ChartLoader) end(gen uint64, cancel context.CancelFunc) {
	l.mu.Lock()
	if l.gen == gen {
		l.cancel = nil
	}
	l.mu.Unlock()
	cancel()
}

func (l *ChartLoader) current(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen == gen
}
