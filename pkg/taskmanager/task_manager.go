package taskmanager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tokamak-network/frontend-deploy/internal/logger"
	"github.com/tokamak-network/frontend-deploy/pkg/domain/entities"
	"go.uber.org/zap"
)

var ErrQueueFull = errors.New("task queue is full")

// TaskManager runs queued tasks on a fixed pool of workers. With a single
// worker tasks run strictly one after another.
type TaskManager struct {
	tasks      chan entities.Task
	numWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	stopOnce   sync.Once
}

func NewTaskManager(numWorkers int, bufferSize int) *TaskManager {
	if numWorkers < 1 {
		numWorkers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TaskManager{
		tasks:      make(chan entities.Task, bufferSize),
		numWorkers: numWorkers,
		ctx:        ctx,
		cancel:     cancel,
	}
}

func (tm *TaskManager) Start() {
	for i := 0; i < tm.numWorkers; i++ {
		tm.wg.Add(1)
		go func(workerID int) {
			defer tm.wg.Done()
			for {
				select {
				case <-tm.ctx.Done():
					logger.Debug("worker exiting", zap.Int("worker", workerID))
					return
				case task, ok := <-tm.tasks:
					if !ok {
						return
					}
					logger.Debug("worker running task", zap.Int("worker", workerID))
					tm.run(workerID, task)
				}
			}
		}(i)
	}
}

func (tm *TaskManager) run(workerID int, task entities.Task) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked",
				zap.Int("worker", workerID),
				zap.String("panic", fmt.Sprint(r)))
		}
	}()
	task()
}

// AddTask queues task without blocking.
func (tm *TaskManager) AddTask(task entities.Task) error {
	select {
	case <-tm.ctx.Done():
		return errors.New("task manager is stopped")
	default:
	}
	select {
	case tm.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

func (tm *TaskManager) Stop() {
	tm.stopOnce.Do(func() {
		tm.cancel()
		tm.wg.Wait()
		logger.Info("all workers stopped")
	})
}
