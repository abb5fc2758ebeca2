// Package importer pulls events from an external calendar provider
// into the local task ledger. Imports are idempotent: each external
// event maps to a stable task id, and events already present are
// skipped rather than duplicated.
package importer

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/muhammad-salman-webdev/planr/internal/source"
	"github.com/muhammad-salman-webdev/planr/internal/store"
)

// taskNamespace seeds the deterministic id derivation for imported
// events. Changing it would re-import everything, so it never does.
var taskNamespace = uuid.MustParse("7f3de1a2-9c44-4b8e-a1d0-5b2f8c6e9a31")

// Result summarizes one import run.
type Result struct {
	// Imported counts events written as new tasks.
	Imported int

	// Skipped counts events already present from a previous run.
	Skipped int
}

// Importer copies external calendar events into the store.
type Importer struct {
	store store.Store
}

// New creates an Importer writing into the given store.
func New(s store.Store) *Importer {
	return &Importer{store: s}
}

// ImportMonth fetches the provider's events for the calendar month
// containing now and inserts the ones not already present. A fetch
// failure aborts the run; a failure on an individual insert is logged
// and skipped so one bad event cannot sink the rest.
func (i *Importer) ImportMonth(
	ctx context.Context,
	src source.Source,
	now time.Time,
) (Result, error) {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := from.AddDate(0, 1, 0)

	events, err := src.FetchEvents(ctx, from, to)
	if err != nil {
		return Result{}, fmt.Errorf("fetching events from %s: %w", src.Type(), err)
	}

	var res Result
	for _, ev := range events {
		id := taskID(src, ev)

		exists, err := i.store.TaskExists(ctx, id)
		if err != nil {
			return res, fmt.Errorf("checking task %s: %w", id, err)
		}
		if exists {
			res.Skipped++
			continue
		}

		draft := store.TaskDraft{
			ID:              id,
			Title:           ev.Title,
			Description:     ev.Description,
			StartTime:       ev.Start,
			EndTime:         ev.End,
			Color:           ev.Color,
			Provider:        src.Type(),
			ProviderEventID: ev.ProviderID,
		}

		if _, err := i.store.AddTask(ctx, draft); err != nil {
			log.Printf("importer: skipping event %q: %v", ev.Title, err)
			continue
		}
		res.Imported++
	}

	return res, nil
}

// taskID derives the task id for an external event. Events with a
// provider id map to the same task id on every run; events without one
// get a fresh random id each time.
func taskID(src source.Source, ev source.Event) string {
	if ev.ProviderID == "" {
		return uuid.New().String()
	}
	seed := string(src.Type()) + ":" + ev.ProviderID
	return uuid.NewSHA1(taskNamespace, []byte(seed)).String()
}
