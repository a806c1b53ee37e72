// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"errors"
	"io"

	"github.com/cheggaaa/pb/v3"
)

// progressTemplate renders "Downloading... 42.00%".
const progressTemplate = `{{ "Downloading..." }} {{ percent . "%.2f%%" "?%" }}`

type (
	// Progress receives download progress. Start is called once with the
	// expected byte count (-1 when unknown), Advance after every block, and
	// Finish when the transfer ends, successfully or not.
	Progress interface {
		Start(total int64)
		Advance(n int64)
		Finish()
	}

	barProgress struct {
		out io.Writer
		bar *pb.ProgressBar
	}

	nopProgress struct{}

	// progressReader reports every Read to a Progress. With want > 0 a body
	// that ends early fails with io.ErrUnexpectedEOF instead of io.EOF.
	progressReader struct {
		r    io.Reader
		p    Progress
		want int64
		got  int64
	}
)

// NewBarProgress returns a Progress that draws a percentage line on w.
func NewBarProgress(w io.Writer) Progress {
	return &barProgress{out: w}
}

func (b *barProgress) Start(total int64) {
	b.bar = pb.New64(total)
	b.bar.SetTemplateString(progressTemplate)
	b.bar.SetWriter(b.out)
	b.bar.Set(pb.Bytes, true)
	b.bar.Start()
}

func (b *barProgress) Advance(n int64) {
	if b.bar != nil {
		b.bar.Add64(n)
	}
}

func (b *barProgress) Finish() {
	if b.bar != nil {
		b.bar.Finish()
	}
}

func (nopProgress) Start(int64)   {}
func (nopProgress) Advance(int64) {}
func (nopProgress) Finish()       {}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.got += int64(n)
		pr.p.Advance(int64(n))
	}
	if errors.Is(err, io.EOF) {
		if lenErr := checkLength(pr.got, pr.want); lenErr != nil {
			return n, lenErr
		}
	}
	return n, err
}
