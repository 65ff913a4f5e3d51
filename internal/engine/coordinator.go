package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dm/aadash/internal/client"
	"github.com/dm/aadash/internal/model"
)

const defaultRoundTimeout = 15 * time.Second

// Round is one fetch round issued for a filter snapshot.
type Round struct {
	Generation uint64
	Snapshot   model.FilterSnapshot
	Initial    bool // first round after mount; also loads the cluster list
	Started    time.Time

	ctx context.Context
}

// RoundResult is what a round's requests produced. Failed requests leave an
// empty field and are counted in Failures.
type RoundResult struct {
	Generation     uint64
	Snapshot       model.FilterSnapshot
	Initial        bool
	BarSeries      []model.DataPoint
	LineSeries     []model.DataPoint
	Modules        []model.Module
	Templates      []model.Template
	ClusterOptions []model.ClusterOption
	Failures       int
	Duration       time.Duration
}

// Coordinator issues fetch rounds and decides which results may become
// visible. Begin and Resolve must be called from a single goroutine (the UI
// loop); Fetch only reads immutable state and may run anywhere.
type Coordinator struct {
	client  client.AnalyticsClient
	session context.Context
	timeout time.Duration
	log     *slog.Logger

	latest   uint64
	cancel   context.CancelFunc
	accepted model.ConsolidatedData
}

// NewCoordinator returns a Coordinator whose rounds are bound to session.
// A non-positive timeout uses 15s; a nil logger discards output.
func NewCoordinator(session context.Context, c client.AnalyticsClient, timeout time.Duration, logger *slog.Logger) *Coordinator {
	if session == nil {
		session = context.Background()
	}
	if timeout <= 0 {
		timeout = defaultRoundTimeout
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Coordinator{
		client:  c,
		session: session,
		timeout: timeout,
		log:     logger,
	}
}

// Begin starts a new generation for snap and supersedes any round still in
// flight: its requests are cancelled and its result will resolve as stale.
// Switching to a different specific cluster clears the accepted line series
// so the chart shows its loading state until the new round lands. Refreshes
// of the cluster already on screen keep it.
func (c *Coordinator) Begin(snap model.FilterSnapshot, initial bool) Round {
	c.latest++
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithTimeout(c.session, c.timeout)
	c.cancel = cancel

	if !snap.AllClustersSelected() && snap.ClusterID != c.accepted.Snapshot.ClusterID {
		c.accepted.LineSeries = nil
	}

	c.log.Debug("round begin", "generation", c.latest, "cluster", snap.ClusterID, "initial", initial)
	return Round{
		Generation: c.latest,
		Snapshot:   snap,
		Initial:    initial,
		Started:    time.Now(),
		ctx:        ctx,
	}
}

// Fetch runs every request the round needs in parallel and waits for all of
// them. It never fails: each request error is logged and replaced by an
// empty value.
func (c *Coordinator) Fetch(r Round) RoundResult {
	ctx := r.ctx
	if ctx == nil {
		ctx = c.session
	}
	res := RoundResult{
		Generation: r.Generation,
		Snapshot:   r.Snapshot,
		Initial:    r.Initial,
	}
	var failures atomic.Int32
	recordFailure := func(op string, err error) {
		failures.Add(1)
		if ctx.Err() != nil {
			c.log.Debug("request abandoned", "op", op, "generation", r.Generation, "err", err)
			return
		}
		c.log.Warn("request failed", "op", op, "generation", r.Generation, "err", err)
	}

	var g errgroup.Group

	g.Go(func() error {
		pts, err := c.client.ReadAggregateMetrics(ctx, r.Snapshot)
		if err != nil {
			recordFailure("aggregate-metrics", err)
			return nil
		}
		res.BarSeries = pts
		return nil
	})

	if !r.Snapshot.AllClustersSelected() {
		g.Go(func() error {
			pts, err := c.client.ReadPerClusterMetrics(ctx, r.Snapshot)
			if err != nil {
				recordFailure("per-cluster-metrics", err)
				return nil
			}
			res.LineSeries = pts
			return nil
		})
	}

	g.Go(func() error {
		mods, err := c.client.ReadModules(ctx, r.Snapshot)
		if err != nil {
			recordFailure("modules", err)
			return nil
		}
		res.Modules = mods
		return nil
	})

	g.Go(func() error {
		tmpls, err := c.client.ReadTemplates(ctx, r.Snapshot)
		if err != nil {
			recordFailure("templates", err)
			return nil
		}
		res.Templates = tmpls
		return nil
	})

	if r.Initial {
		// The cluster list does not depend on the snapshot, so it runs on the
		// session context and survives cancellation of a superseded round.
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(c.session, c.timeout)
			defer cancel()
			records, err := c.client.ReadClusters(cctx)
			if err != nil {
				recordFailure("clusters", err)
				records = nil
			}
			res.ClusterOptions = FormatClusterOptions(records)
			return nil
		})
	}

	_ = g.Wait()

	res.Failures = int(failures.Load())
	if !r.Started.IsZero() {
		res.Duration = time.Since(r.Started)
	}
	return res
}

// Resolve applies res if it belongs to the latest generation and reports
// whether it was accepted. Results from older generations are dropped; the
// only thing salvaged from them is a cluster list nobody has loaded yet.
func (c *Coordinator) Resolve(res RoundResult) (model.ConsolidatedData, bool) {
	if res.Generation < c.latest {
		if res.Initial && len(c.accepted.ClusterOptions) == 0 && len(res.ClusterOptions) > 0 {
			c.accepted.ClusterOptions = res.ClusterOptions
		}
		c.log.Debug("round stale", "generation", res.Generation, "latest", c.latest)
		return model.ConsolidatedData{}, false
	}

	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	options := c.accepted.ClusterOptions
	if res.Initial && len(res.ClusterOptions) > 0 {
		options = res.ClusterOptions
	}
	c.accepted = model.ConsolidatedData{
		Generation:     res.Generation,
		Snapshot:       res.Snapshot,
		BarSeries:      res.BarSeries,
		LineSeries:     res.LineSeries,
		Modules:        res.Modules,
		Templates:      res.Templates,
		ClusterOptions: options,
	}
	c.log.Info("round accepted",
		"generation", res.Generation,
		"failures", res.Failures,
		"duration", res.Duration,
		"bar_points", len(res.BarSeries),
		"line_points", len(res.LineSeries))
	return c.accepted, true
}

// FetchAll runs a complete round for snap and resolves it. It returns false
// when a newer round started while this one was in flight.
func (c *Coordinator) FetchAll(snap model.FilterSnapshot, initial bool) (model.ConsolidatedData, bool) {
	return c.Resolve(c.Fetch(c.Begin(snap, initial)))
}

// Accepted returns the latest accepted data.
func (c *Coordinator) Accepted() model.ConsolidatedData {
	return c.accepted
}

// Latest returns the newest generation handed out by Begin.
func (c *Coordinator) Latest() uint64 {
	return c.latest
}

// Close cancels the round in flight, if any.
func (c *Coordinator) Close() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
