// Package async provides helpers for running workflow branches concurrently.
//
// The deployment workflow fans out independent I/O-bound branches (the
// billing precheck and the hosting lookup during init, one upload per
// artifact during deploy) and needs "all branches finish, first error wins"
// semantics: a failing branch does not cancel its siblings, it only decides
// the aggregate outcome.
package async

import (
	"context"
	"fmt"
)

// Task is a named concurrent branch of the workflow.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel starts all tasks concurrently and waits for every one of them
// to finish. If any task fails, the first error observed is returned after
// all tasks have completed; siblings are not cancelled.
func RunParallel(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	type result struct {
		name string
		err  error
	}

	results := make(chan result, len(tasks))

	for _, task := range tasks {
		go func() {
			results <- result{name: task.Name, err: task.Func(ctx)}
		}()
	}

	var firstErr error
	for range len(tasks) {
		res := <-results
		if res.err != nil && firstErr == nil {
			firstErr = fmt.Errorf("%s: %w", res.name, res.err)
		}
	}

	return firstErr
}
