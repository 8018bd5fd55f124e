// Package settings persists user preferences as key/value pairs on the
// config sheet. Column A holds the key, column B the value; last write wins.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/mfdias/rotina/internal/habits/catalog"
	"github.com/mfdias/rotina/internal/telemetry/metrics"
	"github.com/mfdias/rotina/internal/telemetry/tracing"
)

const (
	keyGymDayChoice  = "gym_day_choice"
	keyCurrentWeight = "current_weight"
)

var ErrSettingNotFound = errors.New("setting not found")

type valueStore interface {
	Get(ctx context.Context, readRange string) ([][]any, error)
	Update(ctx context.Context, updateRange string, rows [][]any) error
	Append(ctx context.Context, appendRange string, rows [][]any) error
}

type Store struct {
	store   valueStore
	sheet   string
	metrics *metrics.Manager

	mutex sync.Mutex
}

func New(store valueStore, sheet string, metricsManager *metrics.Manager) *Store {
	return &Store{
		store:   store,
		sheet:   sheet,
		metrics: metricsManager,
	}
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	rows, err := s.store.Get(ctx, s.sheet+"!A:B")
	if err != nil {
		s.metrics.CounterSheetsErrors.Inc()
		return "", fmt.Errorf("read settings: %w", err)
	}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		if strings.TrimSpace(fmt.Sprintf("%v", row[0])) == key {
			return strings.TrimSpace(fmt.Sprintf("%v", row[1])), nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrSettingNotFound, key)
}

func (s *Store) set(ctx context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	rows, err := s.store.Get(ctx, s.sheet+"!A:B")
	if err != nil {
		s.metrics.CounterSheetsErrors.Inc()
		return fmt.Errorf("read settings: %w", err)
	}
	for i, row := range rows {
		if len(row) >= 1 && strings.TrimSpace(fmt.Sprintf("%v", row[0])) == key {
			cell := fmt.Sprintf("%s!B%d", s.sheet, i+1)
			if err := s.store.Update(ctx, cell, [][]any{{value}}); err != nil {
				s.metrics.CounterSheetsErrors.Inc()
				return fmt.Errorf("update setting %s: %w", key, err)
			}
			return nil
		}
	}
	if err := s.store.Append(ctx, s.sheet+"!A:B", [][]any{{key, value}}); err != nil {
		s.metrics.CounterSheetsErrors.Inc()
		return fmt.Errorf("append setting %s: %w", key, err)
	}
	return nil
}

// GymDayChoice returns the configured weekend gym day, defaulting to none
// when the setting was never written.
func (s *Store) GymDayChoice(ctx context.Context) (choice catalog.ExerciseChoice, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "settings.gymDayChoice")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	raw, err := s.get(ctx, keyGymDayChoice)
	if errors.Is(err, ErrSettingNotFound) {
		return catalog.ChoiceNone, nil
	}
	if err != nil {
		return catalog.ChoiceNone, err
	}
	return catalog.ParseExerciseChoice(raw)
}

func (s *Store) SetGymDayChoice(ctx context.Context, choice catalog.ExerciseChoice) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "settings.setGymDayChoice")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	return s.set(ctx, keyGymDayChoice, string(choice))
}

func (s *Store) Weight(ctx context.Context) (weight float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "settings.weight")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	raw, err := s.get(ctx, keyCurrentWeight)
	if err != nil {
		return 0, err
	}
	weight, err = strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("malformed weight %q: %w", raw, err)
	}
	return weight, nil
}

func (s *Store) SetWeight(ctx context.Context, weight float64) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "settings.setWeight")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if weight <= 0 {
		return fmt.Errorf("weight must be positive, got %.1f", weight)
	}
	return s.set(ctx, keyCurrentWeight, strconv.FormatFloat(weight, 'f', 1, 64))
}
