package tasks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/dmitrymomot/filesmanager/internal/files"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
	"github.com/dmitrymomot/filesmanager/pkg/storage"
)

// DefaultThumbnailWidths are rendered when no widths are configured.
var DefaultThumbnailWidths = []int{500, 250, 100}

// FileFinder loads an owner's record.
type FileFinder interface {
	FindByIDForUser(ctx context.Context, id, userID string) (files.Record, error)
}

// GenerateThumbnails renders resized copies of an image next to the
// original blob, one per width, named "<blobPath>_<width>".
type GenerateThumbnails struct {
	files  FileFinder
	store  storage.Storage
	widths []int
	log    *slog.Logger
}

func NewGenerateThumbnails(finder FileFinder, store storage.Storage, widths []int, log *slog.Logger) *GenerateThumbnails {
	if len(widths) == 0 {
		widths = DefaultThumbnailWidths
	}
	return &GenerateThumbnails{
		files:  finder,
		store:  store,
		widths: widths,
		log:    logger.OrNope(log),
	}
}

func (t *GenerateThumbnails) Name() string {
	return files.TaskGenerateThumbnails
}

func (t *GenerateThumbnails) Handle(ctx context.Context, p files.ThumbnailPayload) error {
	if p.FileID == "" {
		return ErrMissingFileID
	}
	if p.UserID == "" {
		return ErrMissingUserID
	}

	rec, err := t.files.FindByIDForUser(ctx, p.FileID, p.UserID)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			return ErrFileNotFound
		}
		return err
	}
	if rec.Kind != files.KindImage {
		t.log.WarnContext(ctx, "thumbnail requested for non-image", slog.String("file_id", rec.ID))
		return nil
	}

	rc, err := t.store.Get(ctx, rec.BlobPath)
	if err != nil {
		return err
	}
	img, err := imaging.Decode(rc, imaging.AutoOrientation(true))
	_ = rc.Close()
	if err != nil {
		return errors.Join(ErrDecodeImage, err)
	}

	format, err := imaging.FormatFromFilename(rec.Name)
	if err != nil {
		format = imaging.PNG
	}

	for _, w := range t.widths {
		thumb := imaging.Resize(img, w, 0, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, thumb, format); err != nil {
			return errors.Join(ErrEncodeImage, err)
		}

		path := fmt.Sprintf("%s_%d", rec.BlobPath, w)
		if _, err := t.store.Put(ctx, path, &buf, int64(buf.Len()), storage.ContentTypeByName(rec.Name)); err != nil {
			return errors.Join(ErrStoreVariant, err)
		}
	}

	t.log.InfoContext(ctx, "thumbnails generated",
		slog.String("file_id", rec.ID),
		slog.Any("widths", t.widths),
	)
	return nil
}
