package files

import (
	"context"

	"github.com/dmitrymomot/filesmanager/pkg/job"
)

// Repository stores file records. Lookups return ErrNotFound for absent
// records and for ids the backend cannot parse.
type Repository interface {
	// Insert stores rec and returns it with its assigned id.
	Insert(ctx context.Context, rec Record) (Record, error)
	FindByIDForUser(ctx context.Context, id, userID string) (Record, error)
	FindByID(ctx context.Context, id string) (Record, error)
	// ListPage returns up to pageSize records of userID under parentID in
	// insertion order.
	ListPage(ctx context.Context, userID, parentID string, page, pageSize int) ([]Record, error)
	SetPublic(ctx context.Context, id, userID string, public bool) (Record, error)
	CountFiles(ctx context.Context) (int, error)
}

// Dispatcher enqueues background tasks. *job.Manager satisfies it.
type Dispatcher interface {
	Enqueue(ctx context.Context, task string, payload any, opts ...job.EnqueueOption) error
}

const (
	// TaskGenerateThumbnails renders resized variants of an uploaded image.
	TaskGenerateThumbnails = "generate_thumbnails"
	// ThumbnailQueue is the queue image jobs are routed to.
	ThumbnailQueue = "file_queue"
)

// ThumbnailPayload identifies the image a thumbnail job works on.
type ThumbnailPayload struct {
	UserID string `json:"userId"`
	FileID string `json:"fileId"`
}
