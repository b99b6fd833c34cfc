package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/dirwatch/pkg/executor"
)

const defaultHookTimeout = 10 * time.Second

// CommandOptions describes a hook command.
type CommandOptions struct {
	Name    string
	Command string
	Args    []string
	Dir     string // working directory, empty for the current one
	Timeout time.Duration
}

// Command runs an external hook for every message. The message is passed as
// the last argument.
type Command struct {
	opts     CommandOptions
	executor executor.Executor
}

// NewCommand builds a hook listener. A non-positive timeout uses the default.
func NewCommand(opts CommandOptions, exec executor.Executor) *Command {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultHookTimeout
	}
	opts.Args = append([]string(nil), opts.Args...)
	return &Command{
		opts:     opts,
		executor: exec,
	}
}

func (c *Command) Notify(message string) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.opts.Timeout)
	defer cancel()

	args := make([]string, 0, len(c.opts.Args)+1)
	args = append(args, c.opts.Args...)
	args = append(args, message)

	var err error
	if c.opts.Dir != "" {
		_, err = c.executor.ExecuteInDir(ctx, c.opts.Dir, c.opts.Command, args...)
	} else {
		_, err = c.executor.Execute(ctx, c.opts.Command, args...)
	}
	if err != nil {
		return fmt.Errorf("hook %s: %w", c.opts.Name, err)
	}
	return nil
}
