package files

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/filesmanager/pkg/job"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
	"github.com/dmitrymomot/filesmanager/pkg/storage"
)

const defaultEnqueueTimeout = 5 * time.Second

// UploadInput is the client request for a new record.
type UploadInput struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	ParentID ParentRef `json:"parentId"`
	IsPublic bool      `json:"isPublic"`
	// Data is the base64-encoded content. Folders carry none.
	Data string `json:"data"`
}

// Content is an open blob ready to be streamed.
type Content struct {
	io.ReadCloser
	ContentType string
}

// Service implements the file operations for authenticated owners and
// anonymous readers.
type Service struct {
	repo           Repository
	blobs          *BlobStore
	dispatcher     Dispatcher
	log            *slog.Logger
	enqueueTimeout time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithDispatcher enables thumbnail jobs for image uploads.
func WithDispatcher(d Dispatcher) Option {
	return func(s *Service) {
		s.dispatcher = d
	}
}

// WithLogger sets the logger for orphaned-blob warnings and dispatch
// failures. Default: a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		s.log = logger.OrNope(l)
	}
}

// WithEnqueueTimeout bounds each job dispatch. Default: 5s.
func WithEnqueueTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.enqueueTimeout = d
		}
	}
}

// NewService builds a Service over repo and blobs. Without WithDispatcher
// image uploads skip thumbnail jobs.
func NewService(repo Repository, blobs *BlobStore, opts ...Option) *Service {
	s := &Service{
		repo:           repo,
		blobs:          blobs,
		log:            logger.NewNope(),
		enqueueTimeout: defaultEnqueueTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload validates in, writes the content, stores the record and, for
// images, dispatches a thumbnail job. Validation failures happen before
// any side effect. A record is never stored without its content.
func (s *Service) Upload(ctx context.Context, userID string, in UploadInput) (Record, error) {
	if in.Name == "" {
		return Record{}, ErrMissingName
	}
	kind, ok := ParseKind(in.Type)
	if !ok {
		return Record{}, ErrMissingType
	}
	if kind != KindFolder && in.Data == "" {
		return Record{}, ErrMissingData
	}

	var data []byte
	if kind != KindFolder {
		var err error
		if data, err = base64.StdEncoding.DecodeString(in.Data); err != nil {
			return Record{}, errors.Join(ErrInvalidData, err)
		}
	}

	parentID := string(in.ParentID)
	if err := s.ValidateParent(ctx, parentID, userID); err != nil {
		return Record{}, err
	}

	rec := Record{
		OwnerID:  userID,
		Name:     in.Name,
		Kind:     kind,
		IsPublic: in.IsPublic,
		ParentID: parentID,
	}

	if kind != KindFolder {
		path, err := s.blobs.Persist(ctx, data)
		if err != nil {
			return Record{}, err
		}
		rec.BlobPath = path
	}

	created, err := s.repo.Insert(ctx, rec)
	if err != nil {
		if rec.BlobPath != "" {
			s.log.WarnContext(ctx, "metadata insert failed, blob left orphaned",
				slog.String("blob_path", rec.BlobPath),
				slog.Any("error", err),
			)
		}
		return Record{}, errors.Join(ErrMetadataWrite, err)
	}

	if created.Kind == KindImage {
		s.dispatchThumbnails(ctx, created)
	}

	return created, nil
}

// ValidateParent checks that parentID is the root or a folder owned by
// userID.
func (s *Service) ValidateParent(ctx context.Context, parentID, userID string) error {
	if parentID == RootParentID {
		return nil
	}

	parent, err := s.repo.FindByIDForUser(ctx, parentID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrParentNotFound
		}
		return err
	}
	if parent.Kind != KindFolder {
		return ErrParentNotFolder
	}
	return nil
}

// dispatchThumbnails is best effort: failures are logged, never returned.
func (s *Service) dispatchThumbnails(ctx context.Context, rec Record) {
	if s.dispatcher == nil {
		s.log.DebugContext(ctx, "job dispatch disabled, skipping thumbnails", slog.String("file_id", rec.ID))
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.enqueueTimeout)
	defer cancel()

	err := s.dispatcher.Enqueue(ctx, TaskGenerateThumbnails,
		ThumbnailPayload{UserID: rec.OwnerID, FileID: rec.ID},
		job.InQueue(ThumbnailQueue),
	)
	if err != nil {
		s.log.ErrorContext(ctx, "thumbnail job dispatch failed",
			slog.String("file_id", rec.ID),
			slog.Any("error", errors.Join(ErrDispatchFailed, err)),
		)
	}
}

// Show returns a record owned by userID.
func (s *Service) Show(ctx context.Context, userID, id string) (Record, error) {
	return s.repo.FindByIDForUser(ctx, id, userID)
}

// Index lists one page of userID's records under the raw parent reference.
func (s *Service) Index(ctx context.Context, userID, rawParent, rawPage string) ([]Record, error) {
	return s.repo.ListPage(ctx, userID, ParseParent(rawParent), ParsePage(rawPage), PageSize)
}

// SetPublic sets the public flag of a record owned by userID.
func (s *Service) SetPublic(ctx context.Context, userID, id string, public bool) (Record, error) {
	return s.repo.SetPublic(ctx, id, userID, public)
}

// Content opens a record's content for userID, who may be "" for anonymous
// callers. Denied reads are reported as ErrNotFound.
func (s *Service) Content(ctx context.Context, userID, id, size string) (*Content, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanRead(rec, userID) {
		return nil, ErrNotFound
	}
	if rec.Kind == KindFolder {
		return nil, ErrFolderHasNoContent
	}

	path, err := s.blobs.ResolveReadPath(ctx, rec, size)
	if err != nil {
		return nil, err
	}
	rc, err := s.blobs.Open(ctx, path)
	if err != nil {
		return nil, err
	}

	return &Content{ReadCloser: rc, ContentType: storage.ContentTypeByName(rec.Name)}, nil
}

// CountFiles returns the number of stored records.
func (s *Service) CountFiles(ctx context.Context) (int, error) {
	return s.repo.CountFiles(ctx)
}
