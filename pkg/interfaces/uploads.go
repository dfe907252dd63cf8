package interfaces

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// UploadRequest carries a file destined for a page field. SiteID, PageID and
// FieldKey scope the stored object; the uploader decides the final location.
type UploadRequest struct {
	SiteID      uuid.UUID
	PageID      uuid.UUID
	FieldKey    string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadResult is the triple persisted into page content after a successful upload.
type UploadResult struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Uploader is the file upload collaborator. Implementations own transport and
// storage; the page builder only records the returned result.
type Uploader interface {
	Upload(ctx context.Context, req UploadRequest) (UploadResult, error)
}
