package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	docshot "github.com/alnah/go-docshot"
	"github.com/alnah/go-docshot/internal/contentapi"
	"github.com/alnah/go-docshot/internal/yamlutil"
)

// ErrTaskFailed reports a task that reached the failed state.
var ErrTaskFailed = errors.New("task failed")

// runTask dispatches task submit, poll and wait.
func runTask(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printTaskUsage(env.Stderr)
		return fmt.Errorf("%w: task needs a subcommand", ErrUsage)
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "submit":
		return runTaskSubmit(ctx, rest, env)
	case "poll", "wait":
		return runTaskPoll(ctx, sub, rest, env)
	}
	return fmt.Errorf("%w: unknown task subcommand %q", ErrUsage, sub)
}

// runTaskSubmit creates a task and prints its identifier.
func runTaskSubmit(ctx context.Context, args []string, env *Environment) error {
	f, positional, err := parseTaskFlags("submit", args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) < 1 || len(positional) > 2 {
		return fmt.Errorf("%w: task submit needs <save|refresh> [payload]", ErrUsage)
	}

	var payload any
	if len(positional) == 2 {
		payload, err = parsePayload(positional[1])
		if err != nil {
			return err
		}
	}

	s, ctx, cancel, err := openSession(ctx, &f.common, env, nil)
	if err != nil {
		return err
	}
	defer cancel()

	poller := docshot.NewTaskPoller(s.client, s.logger)
	id, err := poller.Submit(ctx, positional[0], payload)
	if err != nil {
		return err
	}

	if f.json {
		return writeJSON(env.Stdout, map[string]string{"id": id})
	}
	fmt.Fprintln(env.Stdout, id)
	return nil
}

// runTaskPoll prints a task's state once (poll) or after it finishes (wait).
func runTaskPoll(ctx context.Context, sub string, args []string, env *Environment) error {
	f, positional, err := parseTaskFlags(sub, args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: task %s needs <id>", ErrUsage, sub)
	}
	id := positional[0]

	s, ctx, cancel, err := openSession(ctx, &f.common, env, nil)
	if err != nil {
		return err
	}
	defer cancel()

	poller := docshot.NewTaskPoller(s.client, s.logger)

	var task *contentapi.Task
	if sub == "wait" {
		task, err = poller.Wait(ctx, id, f.interval)
	} else {
		task, err = poller.Poll(ctx, id)
	}
	if err != nil {
		return err
	}

	if f.json {
		if err := writeJSON(env.Stdout, task); err != nil {
			return err
		}
	} else {
		printTask(env.Stdout, task)
	}

	if sub == "wait" && task.Status == contentapi.TaskFailed {
		return fmt.Errorf("%w: %s", ErrTaskFailed, id)
	}
	return nil
}

// parsePayload decodes a YAML or JSON payload given inline or as @file.
func parsePayload(arg string) (any, error) {
	data := []byte(arg)
	if path, ok := strings.CutPrefix(arg, "@"); ok {
		var err error
		data, err = os.ReadFile(path) // #nosec G304 -- user-provided payload file
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
	}

	var payload any
	if err := yamlutil.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return payload, nil
}

func printTask(w io.Writer, task *contentapi.Task) {
	fmt.Fprintf(w, "%s  %s\n", task.ID, task.Status)
	if len(task.Result) > 0 {
		fmt.Fprintf(w, "result: %s\n", task.Result)
	}
}
