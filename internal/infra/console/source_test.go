package console_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"smart-home-agent/internal/application"
	"smart-home-agent/internal/infra/console"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		fallback string
		want     application.Request
		wantOK   bool
	}{
		{"customer prefix", "cust-1: turn on the lamp", "", application.Request{CustomerID: "cust-1", Text: "turn on the lamp"}, true},
		{"default customer", "turn on the lamp", "cust-9", application.Request{CustomerID: "cust-9", Text: "turn on the lamp"}, true},
		{"no customer", "turn on the lamp", "", application.Request{}, false},
		{"colon inside sentence", "play the album: blue", "cust-9", application.Request{CustomerID: "cust-9", Text: "play the album: blue"}, true},
		{"blank", "   ", "cust-9", application.Request{}, false},
		{"comment", "# setup", "cust-9", application.Request{}, false},
		{"empty text", "cust-1:", "", application.Request{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := console.ParseLine(tt.line, tt.fallback)
			if ok != tt.wantOK {
				t.Fatalf("ok: got %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("request: got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLineSource_ReadsUntilEOF(t *testing.T) {
	input := "cust-1: turn on the lamp\n\n# comment\nturn up the volume\n"
	source := console.NewReaderSource(strings.NewReader(input), "cust-2", discardLogger())

	ctx := context.Background()
	if err := source.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer source.Stop()

	var got []application.Request
	for {
		req, err := source.NextRequest(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("NextRequest: %v", err)
		}
		got = append(got, req)
	}

	if len(got) != 2 {
		t.Fatalf("requests: got %d, want 2", len(got))
	}
	if got[0].CustomerID != "cust-1" || got[1].CustomerID != "cust-2" {
		t.Errorf("customers: got %s, %s", got[0].CustomerID, got[1].CustomerID)
	}
}

func TestLineSource_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "requests.txt")
	if err := os.WriteFile(path, []byte("cust-1: play jazz\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	source := console.NewFileSource(path, "", discardLogger())
	ctx := context.Background()
	if err := source.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer source.Stop()

	req, err := source.NextRequest(ctx)
	if err != nil {
		t.Fatalf("NextRequest: %v", err)
	}
	if req.Text != "play jazz" {
		t.Errorf("text: got %q", req.Text)
	}
}

func TestLineSource_MissingFile(t *testing.T) {
	source := console.NewFileSource(filepath.Join(t.TempDir(), "nope.txt"), "", discardLogger())
	if err := source.Start(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLineSource_Cancelled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	source := console.NewReaderSource(r, "cust-1", discardLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := source.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	_, err := source.NextRequest(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error: got %v, want deadline exceeded", err)
	}
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := console.NewWriterNotifier(&buf)

	if err := n.Notify(context.Background(), "Turned the lamp on."); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if buf.String() != "> Turned the lamp on.\n" {
		t.Errorf("output: got %q", buf.String())
	}
}

func TestLineSource_OverlongLineEndsInput(t *testing.T) {
	input := "cust-1: turn on the lamp\ncust-1: " + strings.Repeat("a", console.MaxLineSize+1) + "\ncust-1: turn off the lamp\n"
	source := console.NewReaderSource(strings.NewReader(input), "", discardLogger())

	ctx := context.Background()
	if err := source.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer source.Stop()

	req, err := source.NextRequest(ctx)
	if err != nil {
		t.Fatalf("first NextRequest: %v", err)
	}
	if req.Text != "turn on the lamp" {
		t.Errorf("text: got %q", req.Text)
	}

	_, err = source.NextRequest(ctx)
	if err == nil || errors.Is(err, io.EOF) {
		t.Fatalf("second NextRequest: got %v, want a read error", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := source.NextRequest(ctx); !errors.Is(err, io.EOF) {
			t.Fatalf("after the read error: got %v, want io.EOF", err)
		}
	}
}
