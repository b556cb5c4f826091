// Package dispatch implements the named task operations the UI invokes.
//
// Each operation is a read-modify-write cycle against a Store. Cycles run
// one at a time through a single-flight queue; the store itself does no
// locking, so this queue is what prevents lost updates.
package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/semaphore"

	"github.com/tgienger/sticky/internal/logging"
	"github.com/tgienger/sticky/internal/models"
)

// CreatedAtLayout formats creation timestamps (ISO-8601, millisecond
// precision, UTC).
const CreatedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Store is the persistence the dispatcher mutates.
type Store interface {
	ReadAll() []models.Task
	WriteAll(tasks []models.Task)
}

// Dispatcher serializes task operations against a Store.
type Dispatcher struct {
	store Store
	queue *semaphore.Weighted
	now   func() time.Time
	log   *log.Logger
}

// New creates a dispatcher over store.
func New(store Store, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		store: store,
		queue: semaphore.NewWeighted(1),
		now:   time.Now,
		log:   logging.OrDiscard(logger).With("component", "dispatch"),
	}
}

// run waits for the queue and executes fn while holding it. The context only
// bounds the wait.
func (d *Dispatcher) run(ctx context.Context, op string, fn func()) error {
	if err := d.queue.Acquire(ctx, 1); err != nil {
		d.log.Warn("abandoned queued operation", "op", op, "err", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	defer d.queue.Release(1)

	fn()
	return nil
}

// List returns the persisted collection in display order.
func (d *Dispatcher) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := d.run(ctx, "list", func() {
		tasks = d.store.ReadAll()
	})
	return tasks, err
}

// Add appends a new, uncompleted task and returns it.
func (d *Dispatcher) Add(ctx context.Context, text string) (models.Task, error) {
	var task models.Task
	err := d.run(ctx, "add", func() {
		tasks := d.store.ReadAll()
		now := d.now()
		task = models.Task{
			ID:        nextID(now, tasks),
			Text:      text,
			CreatedAt: now.UTC().Format(CreatedAtLayout),
		}
		d.store.WriteAll(append(tasks, task))
		d.log.Debug("added task", "id", task.ID)
	})
	return task, err
}

// nextID returns the creation time in milliseconds, bumped past every id
// already in tasks so rapid successive creations stay unique.
func nextID(now time.Time, tasks []models.Task) int64 {
	id := now.UnixMilli()
	for _, t := range tasks {
		if t.ID >= id {
			id = t.ID + 1
		}
	}
	return id
}

// Update replaces the stored task with the same id. When no task matches,
// nothing is written. The input is returned either way.
func (d *Dispatcher) Update(ctx context.Context, task models.Task) (models.Task, error) {
	err := d.run(ctx, "update", func() {
		tasks := d.store.ReadAll()
		for i := range tasks {
			if tasks[i].ID == task.ID {
				tasks[i] = task
				d.store.WriteAll(tasks)
				return
			}
		}
		d.log.Debug("update matched no task", "id", task.ID)
	})
	return task, err
}

// Delete removes the task with id. Deleting an unknown id succeeds.
func (d *Dispatcher) Delete(ctx context.Context, id int64) (bool, error) {
	err := d.run(ctx, "delete", func() {
		tasks := d.store.ReadAll()
		kept := make([]models.Task, 0, len(tasks))
		for _, t := range tasks {
			if t.ID != id {
				kept = append(kept, t)
			}
		}
		d.store.WriteAll(kept)
	})
	return err == nil, err
}

// ClearCompleted removes every completed task, keeping the order of the rest.
func (d *Dispatcher) ClearCompleted(ctx context.Context) (bool, error) {
	err := d.run(ctx, "clear completed", func() {
		tasks := d.store.ReadAll()
		kept := make([]models.Task, 0, len(tasks))
		for _, t := range tasks {
			if !t.Completed {
				kept = append(kept, t)
			}
		}
		d.store.WriteAll(kept)
	})
	return err == nil, err
}
