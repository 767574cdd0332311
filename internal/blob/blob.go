// Package blob stores uploaded evidence files and hands out stable
// references plus public URLs for them.
package blob

import (
	"context"
	"io"
)

// Store persists opaque file content. Put returns a reference that Delete
// accepts, so a failed follow-up write can remove the orphaned file.
type Store interface {
	Put(ctx context.Context, r io.Reader, contentType string) (ref string, err error)
	URL(ref string) string
	Delete(ctx context.Context, ref string) error
}
