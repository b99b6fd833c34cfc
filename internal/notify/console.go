package notify

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Console prints every message prefixed with the listener's name.
type Console struct {
	name string
	mu   sync.Mutex
	out  io.Writer
}

// NewConsole returns a Console writing to out, or stdout when out is nil.
func NewConsole(name string, out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{name: name, out: out}
}

func (c *Console) Notify(message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(c.out, "[%s] %s\n", c.name, message)
	return err
}
