package render

import (
	"context"
	"io"
)

// Asset is the stored-file reference an Uploader hands back; file-type fields
// carry it in form data opaquely.
type Asset struct {
	URL string `json:"url"`
	ID  string `json:"id"`
}

// Uploader is the file/asset collaborator. Blob storage lives outside the
// engine; sessions only shuttle the returned reference into form data.
type Uploader interface {
	Upload(ctx context.Context, name string, content io.Reader) (Asset, error)
}
