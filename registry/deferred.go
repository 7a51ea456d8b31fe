package registry

import (
	"fmt"
	"sync"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/velkstack/velk/core"
	"github.com/velkstack/velk/function"
)

// deferredTask is one captured invocation on the instance's queue.
// The task owns its cloned arguments and holds a strong reference
// on the target from enqueue to completion.
type deferredTask struct {
	id     string
	target function.Invocable
	args   function.FnArgs
}

// deferredQueue is the FIFO of pending deferred invocations.
// Enqueue may happen from any goroutine; draining happens on
// whichever goroutine calls Update on the instance.
type deferredQueue struct {
	mu    sync.Mutex
	tasks []deferredTask
}

func newTaskID() string {
	id, err := gonanoid.New()
	if err != nil {
		return "task"
	}
	return id
}

func (q *deferredQueue) enqueue(target function.Invocable, args function.FnArgs) core.ReturnValue {
	if target == nil {
		return core.InvalidArgument
	}
	task := deferredTask{
		id:     newTaskID(),
		target: target,
		args:   args.Clone(),
	}
	target.Ref()
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
	return core.Success
}

// drain runs every task queued before the call, in FIFO order.
// Tasks queued while draining (by the tasks themselves or by other
// goroutines) stay on the queue for the next drain. A panicking
// task is logged and terminated; subsequent tasks still run.
func (q *deferredQueue) drain(logger core.Logger) {
	q.mu.Lock()
	pending := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	for _, task := range pending {
		runTask(task, logger)
	}
}

func runTask(task deferredTask, logger core.Logger) {
	defer task.target.Unref()
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error(
				"deferred task panicked",
				core.StringLogField("taskId", task.id),
				core.ErrorLogField("error", fmt.Errorf("%v", recovered)),
			)
		}
	}()
	task.target.Invoke(task.args, function.Immediate)
}

func (q *deferredQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}
