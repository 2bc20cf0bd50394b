package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/evscomercial/storefront-backend/services/monitoring/logging"
)

// Task is a unit of background work known to the scheduler.
type Task struct {
	ID          string
	Name        string
	Fn          func(context.Context) error
	Interval    time.Duration // zero means run once
	IsRecurring bool
	ErrorChan   chan error

	mu      sync.Mutex
	lastRun time.Time
	runs    int
}

func (t *Task) LastRun() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastRun
}

func (t *Task) Runs() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.runs
}

type TaskScheduler struct {
	tasks  map[string]*Task
	mu     sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *logging.Logger
}

func NewTaskScheduler(logger *logging.Logger) *TaskScheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &TaskScheduler{
		tasks:  make(map[string]*Task),
		ctx:    ctx,
		cancel: cancel,
		logger: logger,
	}
}

func (ts *TaskScheduler) AddTask(id, name string, fn func(context.Context) error, interval time.Duration) (*Task, error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.tasks[id]; exists {
		return nil, fmt.Errorf("task with ID %s already exists", id)
	}

	task := &Task{
		ID:          id,
		Name:        name,
		Fn:          fn,
		Interval:    interval,
		IsRecurring: interval > 0,
		ErrorChan:   make(chan error, 1),
	}

	ts.tasks[id] = task
	ts.logger.Info(fmt.Sprintf("Added task %s to scheduler", id))
	return task, nil
}

// RunTask executes a task once, immediately, in the background.
func (ts *TaskScheduler) RunTask(id string) error {
	task, err := ts.GetTask(id)
	if err != nil {
		return err
	}

	ts.logger.Info(fmt.Sprintf("Running task %s", id))
	ts.wg.Add(1)
	go func() {
		defer ts.wg.Done()
		ts.execute(task)
	}()

	return nil
}

// ScheduleTask runs the task after delay and then every Interval for
// recurring tasks, until Stop is called.
func (ts *TaskScheduler) ScheduleTask(id string, delay time.Duration) error {
	task, err := ts.GetTask(id)
	if err != nil {
		return err
	}

	ts.logger.Info(fmt.Sprintf("Scheduling task %s to run in %s", id, delay))

	ts.wg.Add(1)
	go func() {
		defer ts.wg.Done()
		timer := time.NewTimer(delay)
		defer timer.Stop()

		for {
			select {
			case <-ts.ctx.Done():
				ts.logger.Info(fmt.Sprintf("Task %s context cancelled", id))
				return
			case <-timer.C:
				ts.execute(task)

				if !task.IsRecurring {
					return
				}
				timer.Reset(task.Interval)
			}
		}
	}()

	return nil
}

func (ts *TaskScheduler) execute(task *Task) {
	if err := task.Fn(ts.ctx); err != nil {
		ts.logger.Error(fmt.Sprintf("Task %s failed: %v", task.Name, err))
		select {
		case task.ErrorChan <- err:
		default:
			ts.logger.Warn(fmt.Sprintf("Could not send error to channel for task %s", task.ID))
		}
	}

	task.mu.Lock()
	task.lastRun = time.Now()
	task.runs++
	task.mu.Unlock()
}

func (ts *TaskScheduler) RemoveTask(id string) error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if _, exists := ts.tasks[id]; !exists {
		return fmt.Errorf("task with ID %s not found", id)
	}

	delete(ts.tasks, id)
	ts.logger.Info(fmt.Sprintf("Removed task %s from scheduler", id))
	return nil
}

func (ts *TaskScheduler) GetTask(id string) (*Task, error) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	task, exists := ts.tasks[id]
	if !exists {
		return nil, fmt.Errorf("task with ID %s not found", id)
	}

	return task, nil
}

// Stop cancels every scheduled task and waits for running ones to return.
func (ts *TaskScheduler) Stop() {
	ts.cancel()
	ts.wg.Wait()
	ts.logger.Info("Task scheduler stopped")
}
