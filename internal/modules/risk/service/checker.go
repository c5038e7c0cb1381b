package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"floodalert/internal/geo"
	"floodalert/internal/modules/risk/types"
)

var (
	ErrCheckInFlight = errors.New("already checking")
	ErrCheckerClosed = errors.New("checker closed")
)

// Sink receives a finished assessment. It is called from the checker's
// worker goroutine, at most once per started check.
type Sink func(types.RiskAssessment)

// Checker runs at most one check at a time for a single presentation surface.
// After Close, pending results are discarded instead of delivered.
type Checker struct {
	assessor Assessor
	name     string

	ctx    context.Context
	cancel context.CancelFunc

	// mu orders Start's wg.Add against Close's wg.Wait.
	mu       sync.Mutex
	inFlight atomic.Bool
	disposed atomic.Bool
	wg       sync.WaitGroup
}

func NewChecker(a Assessor, name string) *Checker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Checker{assessor: a, name: name, ctx: ctx, cancel: cancel}
}

// Start launches a check in the background and returns immediately. It fails
// with ErrCheckInFlight while a previous check has not delivered yet.
func (c *Checker) Start(p geo.Provider, sink Sink) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed.Load() {
		return ErrCheckerClosed
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		slog.Debug("check rejected, one already in flight", "surface", c.name)
		return ErrCheckInFlight
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		result := c.assessor.AssessLocation(c.ctx, p)
		if c.disposed.Load() {
			c.inFlight.Store(false)
			slog.Debug("surface closed, dropping result", "surface", c.name, "id", result.ID)
			return
		}
		// Cleared before delivery so the sink may start the next check.
		c.inFlight.Store(false)
		sink(result)
	}()
	return nil
}

// Check is the blocking form of Start.
func (c *Checker) Check(ctx context.Context, p geo.Provider) (types.RiskAssessment, error) {
	done := make(chan types.RiskAssessment, 1)
	if err := c.Start(p, func(a types.RiskAssessment) { done <- a }); err != nil {
		return types.RiskAssessment{}, err
	}
	select {
	case a := <-done:
		return a, nil
	case <-ctx.Done():
		return types.RiskAssessment{}, ctx.Err()
	}
}

func (c *Checker) InFlight() bool { return c.inFlight.Load() }

// Close marks the surface gone, aborts pending fetches and waits for the
// worker to exit. Safe to call more than once.
func (c *Checker) Close() {
	c.mu.Lock()
	c.disposed.Store(true)
	c.mu.Unlock()
	c.cancel()
	c.wg.Wait()
}

// Sessions hands out one Checker per surface id.
type Sessions struct {
	assessor Assessor

	mu       sync.Mutex
	checkers map[string]*Checker
	closed   bool
}

func NewSessions(a Assessor) *Sessions {
	return &Sessions{assessor: a, checkers: make(map[string]*Checker)}
}

func (s *Sessions) Get(id string) (*Checker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrCheckerClosed
	}
	c, ok := s.checkers[id]
	if !ok {
		c = NewChecker(s.assessor, id)
		s.checkers[id] = c
	}
	return c, nil
}

// Close closes every checker handed out so far.
func (s *Sessions) Close() {
	s.mu.Lock()
	s.closed = true
	checkers := s.checkers
	s.checkers = make(map[string]*Checker)
	s.mu.Unlock()

	for _, c := range checkers {
		c.Close()
	}
}
