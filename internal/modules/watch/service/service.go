package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"floodalert/internal/geo"
	riskservice "floodalert/internal/modules/risk/service"
	risktypes "floodalert/internal/modules/risk/types"
	"floodalert/internal/modules/watch/repository"
	"floodalert/internal/modules/watch/types"
)

var ErrRunInProgress = errors.New("watch run already in progress")

// ChangeNotifier is told about every place whose status or danger flag moved.
type ChangeNotifier interface {
	NotifyChange(ctx context.Context, change types.Change)
}

type NotifierFunc func(ctx context.Context, change types.Change)

func (f NotifierFunc) NotifyChange(ctx context.Context, change types.Change) { f(ctx, change) }

// Watcher re-checks every stored place on a cron schedule. Latest results
// live in memory only.
type Watcher struct {
	repository repository.PlacesRepository
	assessor   riskservice.Assessor
	notifiers  []ChangeNotifier

	mu     sync.RWMutex
	latest map[int64]risktypes.RiskAssessment

	running atomic.Bool
	cron    *cron.Cron
	startup sync.WaitGroup
}

func NewWatcher(repository repository.PlacesRepository, assessor riskservice.Assessor, notifiers ...ChangeNotifier) *Watcher {
	return &Watcher{
		repository: repository,
		assessor:   assessor,
		notifiers:  notifiers,
		latest:     make(map[int64]risktypes.RiskAssessment),
	}
}

// RunOnce checks places one after another. Overlapping runs are refused.
func (w *Watcher) RunOnce(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return ErrRunInProgress
	}
	defer w.running.Store(false)

	places, err := w.repository.ListPlaces(ctx)
	if err != nil {
		return fmt.Errorf("list places: %w", err)
	}

	changed := 0
	for _, p := range places {
		if err := ctx.Err(); err != nil {
			return err
		}
		cur := w.assessor.AssessLocation(ctx, geo.Fixed(p.Coordinate))

		w.mu.Lock()
		prev, seen := w.latest[p.ID]
		w.latest[p.ID] = cur
		w.mu.Unlock()

		change := types.Change{Place: p, Current: cur}
		if seen {
			if prev.Status == cur.Status && prev.InDanger == cur.InDanger {
				continue
			}
			change.Previous = &prev
		}
		changed++
		slog.Info("place status changed",
			"place", p.Name,
			"status", cur.Status,
			"in_danger", cur.InDanger,
			"combined", cur.CombinedLevel,
			"first", change.First(),
		)
		for _, n := range w.notifiers {
			n.NotifyChange(ctx, change)
		}
	}
	slog.Info("watch run finished", "places", len(places), "changed", changed)
	return nil
}

// Start runs once immediately and then on schedule. An empty schedule only
// runs the startup check.
func (w *Watcher) Start(ctx context.Context, schedule string) error {
	if schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(schedule, func() { w.runLogged(ctx) }); err != nil {
			return fmt.Errorf("invalid watch schedule %q: %w", schedule, err)
		}
		w.cron = c
		c.Start()
		slog.Info("watch scheduled", "schedule", schedule)
	} else {
		slog.Info("watch schedule disabled")
	}

	w.startup.Add(1)
	go func() {
		defer w.startup.Done()
		w.runLogged(ctx)
	}()
	return nil
}

func (w *Watcher) runLogged(ctx context.Context) {
	if err := w.RunOnce(ctx); err != nil {
		if errors.Is(err, ErrRunInProgress) {
			slog.Warn("watch run skipped, previous run still going")
			return
		}
		if !errors.Is(err, context.Canceled) {
			slog.Error("watch run failed", "error", err)
		}
	}
}

// Stop waits for the startup run and any scheduled run in progress to finish.
func (w *Watcher) Stop() {
	if w.cron != nil {
		<-w.cron.Stop().Done()
	}
	w.startup.Wait()
}

func (w *Watcher) Statuses(ctx context.Context) ([]types.PlaceStatus, error) {
	places, err := w.repository.ListPlaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("list places: %w", err)
	}
	out := make([]types.PlaceStatus, 0, len(places))
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, p := range places {
		ps := types.PlaceStatus{Place: p}
		if a, ok := w.latest[p.ID]; ok {
			ps.Latest = &a
		}
		out = append(out, ps)
	}
	return out, nil
}
