package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/JonMunkholm/entities/internal/entity"
	"github.com/JonMunkholm/entities/internal/logging"
	"github.com/JonMunkholm/entities/internal/persist"
	"github.com/google/uuid"
)

// ErrUnknownFormat is wrapped by lookups of a format no handler serves.
var ErrUnknownFormat = errors.New("unknown format")

// Service routes save, load and cross-check requests to persistence handlers.
type Service struct {
	handlers map[string]persist.Handler
	limiters map[string]*Limiter
	history  *history
}

// CrossCheckResult reports how a set survived two handlers.
type CrossCheckResult struct {
	Left       string
	Right      string
	Matches    []Match
	LeftCount  int
	RightCount int
}

// NewService creates a Service over handlers, keyed by their Format. A later
// handler for the same format replaces an earlier one.
func NewService(handlers ...persist.Handler) *Service {
	s := &Service{
		handlers: make(map[string]persist.Handler, len(handlers)),
		limiters: make(map[string]*Limiter, len(handlers)),
		history:  newHistory(DefaultHistorySize),
	}
	for _, h := range handlers {
		s.handlers[h.Format()] = h
		s.limiters[h.Format()] = NewLimiter(1, DefaultMaxWait)
	}
	return s
}

// Formats returns the registered formats in sorted order.
func (s *Service) Formats() []string {
	out := make([]string, 0, len(s.handlers))
	for f := range s.handlers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Handler returns the handler registered for format.
func (s *Service) Handler(format string) (persist.Handler, error) {
	h, ok := s.handlers[format]
	if !ok {
		return nil, &entity.OpError{
			Op:   "service.lookup",
			Kind: entity.KindNotFound,
			Err:  fmt.Errorf("%w %q", ErrUnknownFormat, format),
		}
	}
	return h, nil
}

// Save replaces the contents of format's destination with entities.
func (s *Service) Save(ctx context.Context, format string, entities []entity.Entity) (SaveResult, error) {
	h, err := s.Handler(format)
	if err != nil {
		return SaveResult{}, err
	}

	lim := s.limiters[format]
	if err := lim.Acquire(ctx); err != nil {
		return SaveResult{}, fmt.Errorf("save %s: %w", format, err)
	}
	defer lim.Release()

	start := time.Now()
	if err := h.Save(ctx, entities...); err != nil {
		return SaveResult{}, fmt.Errorf("save %s: %w", format, err)
	}

	res := SaveResult{
		ID:       uuid.New(),
		Format:   format,
		Count:    len(entities),
		Duration: time.Since(start),
		SavedAt:  start,
	}
	s.history.add(res)

	logging.FromContext(ctx).Info("entities saved",
		"save_id", res.ID,
		"format", format,
		"count", res.Count,
		"duration", res.Duration,
	)
	return res, nil
}

// Load reads format's destination back into new records.
func (s *Service) Load(ctx context.Context, format string) ([]entity.Entity, error) {
	h, err := s.Handler(format)
	if err != nil {
		return nil, err
	}

	lim := s.limiters[format]
	if err := lim.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("load %s: %w", format, err)
	}
	defer lim.Release()

	out, err := h.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", format, err)
	}
	return out, nil
}

// CrossCheck saves entities through the left and right handlers, loads both
// back and pairs the results with Compare.
func (s *Service) CrossCheck(ctx context.Context, left, right string, entities []entity.Entity) (CrossCheckResult, error) {
	// Resolve both before writing anything.
	if _, err := s.Handler(left); err != nil {
		return CrossCheckResult{}, err
	}
	if _, err := s.Handler(right); err != nil {
		return CrossCheckResult{}, err
	}

	if _, err := s.Save(ctx, left, entities); err != nil {
		return CrossCheckResult{}, err
	}
	if right != left {
		if _, err := s.Save(ctx, right, entities); err != nil {
			return CrossCheckResult{}, err
		}
	}

	a, err := s.Load(ctx, left)
	if err != nil {
		return CrossCheckResult{}, err
	}
	b, err := s.Load(ctx, right)
	if err != nil {
		return CrossCheckResult{}, err
	}

	res := CrossCheckResult{
		Left:       left,
		Right:      right,
		Matches:    Compare(a, b),
		LeftCount:  len(a),
		RightCount: len(b),
	}

	logging.FromContext(ctx).Info("cross-check complete",
		"left", left,
		"right", right,
		"matches", len(res.Matches),
		"left_count", res.LeftCount,
		"right_count", res.RightCount,
	)
	return res, nil
}

// History returns up to limit recent save results, newest first.
func (s *Service) History(limit int) []SaveResult {
	return s.history.recent(limit)
}

// Drain waits for in-flight operations on every format to finish.
func (s *Service) Drain(ctx context.Context) error {
	for format, lim := range s.limiters {
		if err := lim.WaitForDrain(ctx); err != nil {
			return fmt.Errorf("drain %s: %w", format, err)
		}
	}
	return nil
}
