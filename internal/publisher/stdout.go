package publisher

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ryosukesatoh/astro-feed/internal/digest"
)

// StdoutPublisher prints the digest, for dry runs.
type StdoutPublisher struct {
	out io.Writer
}

// NewStdoutPublisher prints to w, or to os.Stdout when w is nil.
func NewStdoutPublisher(w io.Writer) *StdoutPublisher {
	return &StdoutPublisher{out: w}
}

func (p *StdoutPublisher) Publish(_ context.Context, d *digest.Digest) error {
	w := p.out
	if w == nil {
		w = os.Stdout
	}

	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w, d.Headline)
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintln(w)
	fmt.Fprintln(w, d.Title)
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintln(w, d.Description())
	fmt.Fprintln(w, strings.Repeat("-", 72))
	fmt.Fprintln(w, d.Footer.Text)
	return nil
}
