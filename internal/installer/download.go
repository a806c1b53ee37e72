// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// DefaultBlockSize is the read size used while streaming an asset (512 KiB).
const DefaultBlockSize = 512 * 1024

// copyBlocks copies src to dst in blocks of blockSize bytes, reporting each
// block to progress. The context is checked between blocks. Only io.EOF ends
// the copy; a short body surfaces as io.ErrUnexpectedEOF from src.
func copyBlocks(ctx context.Context, dst io.Writer, src io.Reader, blockSize int, progress Progress) (int64, error) {
	buf := make([]byte, blockSize)

	var written int64
	for {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		n, readErr := readBlock(src, buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, err
			}
			written += int64(n)
			progress.Advance(int64(n))
		}

		switch {
		case readErr == nil:
			continue
		case errors.Is(readErr, io.EOF):
			return written, nil
		default:
			return written, readErr
		}
	}
}

// readBlock fills buf from r. It returns early with the error of the read
// that stopped it, io.EOF included.
func readBlock(r io.Reader, buf []byte) (int, error) {
	var n int
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// checkLength reports a body that ended before the expected byte count.
// want <= 0 means the size is unknown.
func checkLength(got, want int64) error {
	if want > 0 && got != want {
		return fmt.Errorf("%w: received %d of %d bytes", io.ErrUnexpectedEOF, got, want)
	}
	return nil
}

// downloadToTempFile streams the asset at url into a new temporary file in
// dir and returns its path. The caller removes the file when done.
func (i *Installer) downloadToTempFile(ctx context.Context, url string, size int64, dir string) (_ string, err error) {
	body, length, err := i.source.DownloadAsset(ctx, url)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }() // read-only HTTP response body

	tmp, err := os.CreateTemp(dir, ".nvim-latest-download-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if closeErr := tmp.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	total := size
	if total <= 0 {
		total = length
	}

	i.progress.Start(total)
	written, err := copyBlocks(ctx, tmp, body, i.blockSize, i.progress)
	i.progress.Finish()
	if err != nil {
		return "", fmt.Errorf("writing to temp file: %w", err)
	}
	if err = checkLength(written, total); err != nil {
		return "", err
	}

	i.logger.Debug("asset downloaded", "bytes", written, "file", tmp.Name())

	return tmp.Name(), nil
}
