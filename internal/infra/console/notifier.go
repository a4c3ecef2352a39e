package console

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// WriterNotifier prints each reply on its own line.
type WriterNotifier struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
}

func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w, prefix: "> "}
}

func (n *WriterNotifier) Notify(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, err := fmt.Fprintf(n.w, "%s%s\n", n.prefix, message); err != nil {
		return fmt.Errorf("writing reply: %w", err)
	}
	return nil
}
