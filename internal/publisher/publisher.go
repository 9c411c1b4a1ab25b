package publisher

import (
	"context"

	"github.com/ryosukesatoh/astro-feed/internal/digest"
)

// Publisher publishes a digest to some output destination.
type Publisher interface {
	Publish(ctx context.Context, d *digest.Digest) error
}
