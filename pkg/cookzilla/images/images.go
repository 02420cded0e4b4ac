// Package images is the photo hosting collaborator. Uploads go to
// imgur when a client id is configured and to local disk otherwise.
package images

import (
	"context"
	"io"
)

// Image is the result of a successful upload.
type Image struct {
	URL          string `json:"url"`
	DeleteHandle string `json:"delete_handle"`
}

// Store uploads recipe photos. Uploads are synchronous; the caller's
// request blocks until the image is stored.
type Store interface {
	Upload(ctx context.Context, r io.Reader, filename string) (*Image, error)
}
