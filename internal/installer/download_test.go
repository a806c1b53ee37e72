// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }

func TestCopyBlocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		size      int
		blockSize int
		wantSteps int
	}{
		{"exact multiple", 4096, 1024, 4},
		{"partial last block", 4000, 1024, 4},
		{"smaller than block", 10, 1024, 1},
		{"empty", 0, 1024, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := bytes.Repeat([]byte{'x'}, tt.size)
			var dst bytes.Buffer
			progress := &recordingProgress{}

			n, err := copyBlocks(context.Background(), &dst, bytes.NewReader(src), tt.blockSize, progress)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if n != int64(tt.size) || dst.Len() != tt.size {
				t.Errorf("copied %d bytes (buffer %d), want %d", n, dst.Len(), tt.size)
			}
			if len(progress.advances) != tt.wantSteps {
				t.Errorf("progress steps = %d, want %d", len(progress.advances), tt.wantSteps)
			}
		})
	}
}

func TestCopyBlocks_ReadError(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("connection reset")
	src := io.MultiReader(strings.NewReader("partial"), failingReader{err: wantErr})

	_, err := copyBlocks(context.Background(), io.Discard, src, 4, &recordingProgress{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
}

func TestCopyBlocks_UnexpectedEOF(t *testing.T) {
	t.Parallel()

	src := io.MultiReader(strings.NewReader("partial body"), failingReader{err: io.ErrUnexpectedEOF})

	n, err := copyBlocks(context.Background(), io.Discard, src, 64, &recordingProgress{})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
	if n != int64(len("partial body")) {
		t.Errorf("copied %d bytes, want %d", n, len("partial body"))
	}
}

func TestCheckLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		got     int64
		want    int64
		wantErr bool
	}{
		{"complete", 100, 100, false},
		{"unknown size", 42, -1, false},
		{"zero size", 42, 0, false},
		{"short", 30, 100, true},
		{"long", 120, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := checkLength(tt.got, tt.want)
			if (err != nil) != tt.wantErr {
				t.Fatalf("checkLength(%d, %d) = %v, wantErr %v", tt.got, tt.want, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
				t.Errorf("error should wrap io.ErrUnexpectedEOF, got %v", err)
			}
		})
	}
}

func TestCopyBlocks_ContextCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := copyBlocks(ctx, io.Discard, strings.NewReader("data"), 2, &recordingProgress{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if n != 0 {
		t.Errorf("copied %d bytes after cancellation", n)
	}
}

func TestProgressReader(t *testing.T) {
	t.Parallel()

	progress := &recordingProgress{}
	r := &progressReader{r: strings.NewReader("hello world"), p: progress}

	if _, err := io.Copy(io.Discard, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if progress.sum() != 11 {
		t.Errorf("progress sum = %d, want 11", progress.sum())
	}
}

func TestProgressReader_ShortBody(t *testing.T) {
	t.Parallel()

	progress := &recordingProgress{}
	r := &progressReader{r: strings.NewReader("hello"), p: progress, want: 11}

	_, err := io.ReadAll(r)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected io.ErrUnexpectedEOF, got %v", err)
	}
	if progress.sum() != 5 {
		t.Errorf("progress sum = %d, want 5", progress.sum())
	}
}

func TestBarProgress(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	p := NewBarProgress(&out)
	p.Start(100)
	p.Advance(50)
	p.Advance(50)
	p.Finish()

	if !strings.Contains(out.String(), "Downloading...") {
		t.Errorf("output %q missing label", out.String())
	}
	if !strings.Contains(out.String(), "100.00%") {
		t.Errorf("output %q missing final percentage", out.String())
	}
}

func TestAssetTable_Lookup(t *testing.T) {
	t.Parallel()

	table := DefaultAssetTable()
	tests := []struct {
		platform Platform
		want     string
		wantErr  bool
	}{
		{Platform{"Linux", "x86_64"}, "nvim-linux-x86_64.appimage", false},
		{Platform{"Linux", "aarch64"}, "nvim-linux-arm64.appimage", false},
		{Platform{"Linux", "arm64"}, "", true},
		{Platform{"Darwin", "x86_64"}, "", true},
		{Platform{"Windows", "AMD64"}, "", true},
	}

	for _, tt := range tests {
		got, err := table.Lookup(tt.platform)
		if (err != nil) != tt.wantErr {
			t.Errorf("Lookup(%s) error = %v, wantErr %v", tt.platform, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnsupportedPlatform) {
			t.Errorf("Lookup(%s) error should wrap ErrUnsupportedPlatform", tt.platform)
		}
		if got != tt.want {
			t.Errorf("Lookup(%s) = %q, want %q", tt.platform, got, tt.want)
		}
	}
}
