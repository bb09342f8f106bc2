package services

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Counter issues monotonically increasing snapshot identities and
// persists the last-issued value as a decimal integer in a single text
// file. The file is read once at construction; all later access goes
// through the in-memory value under the mutex. An absent file means
// identity 0.
type Counter struct {
	mu      sync.Mutex
	path    string
	current int64
}

func NewCounter(path string) (*Counter, error) {
	c := &Counter{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read counter file: %w", err)
	}

	n, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse counter file %s: %w", path, err)
	}
	c.current = n
	return c, nil
}

// Next increments the counter, persists it and returns the new value.
func (c *Counter) Next() (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.current + 1
	if err := c.write(next); err != nil {
		return 0, err
	}
	c.current = next
	return next, nil
}

// Current returns the last-issued identity without advancing it.
func (c *Counter) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Counter) write(v int64) error {
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create counter dir: %w", err)
		}
	}
	if err := os.WriteFile(c.path, []byte(strconv.FormatInt(v, 10)), 0o644); err != nil {
		return fmt.Errorf("write counter file: %w", err)
	}
	return nil
}
