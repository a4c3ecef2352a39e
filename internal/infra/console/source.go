// Package console reads requests from a line-oriented stream and writes
// replies back to a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"smart-home-agent/internal/application"
)

// MaxLineSize is the longest request line accepted. A longer line ends
// the input with an error.
const MaxLineSize = 16 * 1024

// LineSource turns each input line into a request. A line has the form
// "customer-id: text"; lines without a customer prefix go to the default
// customer. Blank lines and lines starting with # are skipped.
type LineSource struct {
	name            string
	path            string
	reader          io.Reader
	defaultCustomer string
	logger          *slog.Logger

	mu       sync.Mutex
	file     *os.File
	requests chan application.Request
	scanErr  error
	started  bool
}

func NewReaderSource(r io.Reader, defaultCustomer string, logger *slog.Logger) *LineSource {
	return &LineSource{
		name:            "stdin",
		reader:          r,
		defaultCustomer: defaultCustomer,
		logger:          logger,
		requests:        make(chan application.Request, 16),
	}
}

// NewFileSource reads requests from the file at path, opened on Start.
func NewFileSource(path, defaultCustomer string, logger *slog.Logger) *LineSource {
	return &LineSource{
		name:            "file",
		path:            path,
		defaultCustomer: defaultCustomer,
		logger:          logger,
		requests:        make(chan application.Request, 16),
	}
}

func (s *LineSource) Name() string {
	return s.name
}

func (s *LineSource) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.path != "" {
		f, err := os.Open(s.path)
		if err != nil {
			return fmt.Errorf("opening request file: %w", err)
		}
		s.file = f
		s.reader = f
	}

	s.started = true
	go s.scan(ctx)
	return nil
}

func (s *LineSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file != nil {
		err := s.file.Close()
		s.file = nil
		return err
	}
	return nil
}

func (s *LineSource) scan(ctx context.Context) {
	defer close(s.requests)

	scanner := bufio.NewScanner(s.reader)
	scanner.Buffer(make([]byte, 0, 4096), MaxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		req, ok := ParseLine(line, s.defaultCustomer)
		if !ok {
			if line != "" && !strings.HasPrefix(line, "#") {
				s.logger.Warn("skipping line without customer or text", "line", lineNo)
			}
			continue
		}

		select {
		case s.requests <- req:
		case <-ctx.Done():
			return
		}
	}

	if err := scanner.Err(); err != nil {
		s.mu.Lock()
		s.scanErr = err
		s.mu.Unlock()
	}
}

// NextRequest blocks for the next line. It returns io.EOF once the input
// is exhausted. A read error is returned once, followed by io.EOF.
func (s *LineSource) NextRequest(ctx context.Context) (application.Request, error) {
	select {
	case <-ctx.Done():
		return application.Request{}, ctx.Err()
	case req, ok := <-s.requests:
		if !ok {
			s.mu.Lock()
			err := s.scanErr
			s.scanErr = nil
			s.mu.Unlock()
			if err != nil {
				return application.Request{}, fmt.Errorf("reading requests: %w", err)
			}
			return application.Request{}, io.EOF
		}
		return req, nil
	}
}

// ParseLine splits a "customer-id: text" line. It reports false for
// blank lines, comments, and lines with no customer when no default is
// set.
func ParseLine(line, defaultCustomer string) (application.Request, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return application.Request{}, false
	}

	if prefix, text, found := strings.Cut(line, ":"); found {
		prefix = strings.TrimSpace(prefix)
		if prefix != "" && !strings.ContainsAny(prefix, " \t") {
			text = strings.TrimSpace(text)
			if text == "" {
				return application.Request{}, false
			}
			return application.Request{CustomerID: prefix, Text: text}, true
		}
	}

	if defaultCustomer == "" {
		return application.Request{}, false
	}
	return application.Request{CustomerID: defaultCustomer, Text: line}, true
}
