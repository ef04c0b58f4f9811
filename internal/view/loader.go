// Package view holds the per-view data lifecycle of the dashboard: one load per
// activation, concurrent fetches, and memoized derived structures.
package view

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"spivaDashboard/internal/finance"
)

// State is the lifecycle of a view load.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateReadyWithFallback
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateReadyWithFallback:
		return "ready-with-fallback"
	}
	return "unknown"
}

// Source is the upstream data access used by a view.
type Source interface {
	LoadMatrix(ctx context.Context) finance.Fetched[finance.Matrix]
	LoadDetailRows(ctx context.Context) finance.Fetched[[]finance.RawRow]
}

// Snapshot is a copy of the view state.
type Snapshot struct {
	LoadID         string             `json:"loadId"`
	State          State              `json:"-"`
	StateName      string             `json:"state"`
	Matrix         finance.Matrix     `json:"matrix"`
	MatrixFallback bool               `json:"matrixFallback"`
	DetailRows     []finance.TableRow `json:"detailRows"`
	DetailFallback bool               `json:"detailFallback"`
}

// DefaultLoadTimeout bounds one view load, independent of the caller's context.
const DefaultLoadTimeout = 30 * time.Second

// Loader owns the state of one dashboard view. Each fetch writes only its own
// slot, and results that arrive after a newer Load started are dropped.
type Loader struct {
	src     Source
	log     zerolog.Logger
	maxAge  time.Duration
	timeout time.Duration
	now     func() time.Time

	mu         sync.RWMutex
	gen        uint64
	snap       Snapshot
	matrixDone bool
	detailDone bool
	settledAt  time.Time
	done       chan struct{} // closed when the current generation settles

	summary *finance.Memo[finance.SummaryMetrics]
	bar     *finance.Memo[finance.BarSeries]
	trend   *finance.Memo[finance.TrendSeries]
}

// NewLoader creates an idle view. A settled load older than maxAge is
// reloaded by Ensure; zero keeps it until the next explicit Load.
func NewLoader(src Source, log zerolog.Logger, maxAge time.Duration) *Loader {
	return &Loader{
		src:     src,
		log:     log.With().Str("component", "view").Logger(),
		maxAge:  maxAge,
		timeout: DefaultLoadTimeout,
		now:     time.Now,
		snap:    Snapshot{State: StateIdle, StateName: StateIdle.String()},
		summary: finance.NewMemo(finance.ComputeSummary),
		bar:     finance.NewMemo(finance.BuildBarSeries),
		trend: finance.NewMemo(func(m finance.Matrix, _ string) (finance.TrendSeries, bool) {
			return finance.BuildTrendSeries(m), true
		}),
	}
}

// Load activates the view: both fetches run concurrently and the returned
// snapshot reflects this load unless a newer one superseded it. The fetches
// outlive ctx; when ctx ends first the current snapshot is returned as is.
func (l *Loader) Load(ctx context.Context) Snapshot {
	l.mu.Lock()
	done := l.startLocked(ctx)
	l.mu.Unlock()
	return l.wait(ctx, done)
}

// Ensure returns the settled view. It waits for a load in flight, and starts
// one when the view is idle or its last load is older than maxAge.
func (l *Loader) Ensure(ctx context.Context) Snapshot {
	l.mu.Lock()
	var done chan struct{}
	switch {
	case l.snap.State == StateLoading:
		done = l.done
	case l.snap.State == StateIdle, l.staleLocked():
		done = l.startLocked(ctx)
	}
	l.mu.Unlock()
	if done == nil {
		return l.Snapshot()
	}
	return l.wait(ctx, done)
}

func (l *Loader) staleLocked() bool {
	return l.maxAge > 0 && l.now().Sub(l.settledAt) >= l.maxAge
}

// startLocked begins a new generation. l.mu must be held.
func (l *Loader) startLocked(ctx context.Context) chan struct{} {
	l.gen++
	gen := l.gen
	loadID := uuid.NewString()
	l.snap = Snapshot{LoadID: loadID, State: StateLoading, StateName: StateLoading.String()}
	l.matrixDone, l.detailDone = false, false
	done := make(chan struct{})
	l.done = done

	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	go func() {
		defer cancel()
		defer close(done)
		l.run(loadCtx, gen, loadID)
	}()
	return done
}

func (l *Loader) run(ctx context.Context, gen uint64, loadID string) {
	log := l.log.With().Str("load_id", loadID).Logger()
	log.Debug().Msg("view load started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res := l.src.LoadMatrix(gctx)
		l.commit(gen, func(s *Snapshot) {
			s.Matrix = res.Value
			s.MatrixFallback = res.Fallback
			l.matrixDone = true
		})
		return nil
	})
	g.Go(func() error {
		res := l.src.LoadDetailRows(gctx)
		rows := finance.NormalizeRows(res.Value)
		l.commit(gen, func(s *Snapshot) {
			s.DetailRows = rows
			s.DetailFallback = res.Fallback
			l.detailDone = true
		})
		return nil
	})
	_ = g.Wait()

	snap := l.Snapshot()
	if snap.LoadID != loadID {
		log.Debug().Str("current_load_id", snap.LoadID).Msg("view load superseded")
	} else {
		log.Info().Str("state", snap.StateName).Msg("view load finished")
	}
}

// wait blocks until done closes or ctx ends. A generation that was superseded
// hands over to the one that replaced it.
func (l *Loader) wait(ctx context.Context, done chan struct{}) Snapshot {
	for {
		select {
		case <-done:
		case <-ctx.Done():
			return l.Snapshot()
		}
		l.mu.RLock()
		loading, next := l.snap.State == StateLoading, l.done
		l.mu.RUnlock()
		if !loading || next == done {
			return l.Snapshot()
		}
		done = next
	}
}

// commit applies update when gen is still the current load.
func (l *Loader) commit(gen uint64, update func(*Snapshot)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return
	}
	update(&l.snap)
	if l.matrixDone && l.detailDone {
		l.snap.State = StateReady
		if l.snap.MatrixFallback || l.snap.DetailFallback {
			l.snap.State = StateReadyWithFallback
		}
		l.snap.StateName = l.snap.State.String()
		l.settledAt = l.now()
	}
}

// Snapshot returns a copy of the current view state.
func (l *Loader) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	s := l.snap
	s.Matrix = l.snap.Matrix.Clone()
	s.DetailRows = append([]finance.TableRow(nil), l.snap.DetailRows...)
	return s
}

// Summary returns the memoized metrics for period of the current matrix.
func (l *Loader) Summary(period string) (finance.SummaryMetrics, bool) {
	return l.summary.Get(l.Snapshot().Matrix, period)
}

// Bar returns the memoized bar series for period of the current matrix.
func (l *Loader) Bar(period string) (finance.BarSeries, bool) {
	return l.bar.Get(l.Snapshot().Matrix, period)
}

// Trend returns the memoized trend series of the current matrix.
func (l *Loader) Trend() finance.TrendSeries {
	t, _ := l.trend.Get(l.Snapshot().Matrix, "")
	return t
}

// ComparisonRows pivots the current matrix into table rows.
func (l *Loader) ComparisonRows() []finance.TableRow {
	return finance.ComparisonRows(l.Snapshot().Matrix)
}

// DetailRows returns the normalized detail rows of the current load.
func (l *Loader) DetailRows() []finance.TableRow {
	return l.Snapshot().DetailRows
}
