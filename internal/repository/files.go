package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/filesmanager/internal/files"
)

// Files is the Postgres files.Repository.
type Files struct {
	db DBTX
}

func NewFiles(db DBTX) *Files {
	return &Files{db: db}
}

const fileColumns = `id, user_id, name, kind, is_public, parent_id, blob_path`

func (r *Files) Insert(ctx context.Context, rec files.Record) (files.Record, error) {
	owner, ok := parseID(rec.OwnerID)
	if !ok {
		return files.Record{}, fmt.Errorf("insert file: invalid owner id %q", rec.OwnerID)
	}
	parent, err := nullableID(rec.ParentID)
	if err != nil {
		return files.Record{}, fmt.Errorf("insert file: %w", err)
	}

	var id uuid.UUID
	err = r.db.QueryRow(ctx, `
		INSERT INTO files (user_id, name, kind, is_public, parent_id, blob_path)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id`,
		owner, rec.Name, string(rec.Kind), rec.IsPublic, parent, rec.BlobPath,
	).Scan(&id)
	if err != nil {
		return files.Record{}, fmt.Errorf("insert file: %w", err)
	}

	rec.ID = id.String()
	return rec, nil
}

func (r *Files) FindByIDForUser(ctx context.Context, id, userID string) (files.Record, error) {
	fid, ok := parseID(id)
	if !ok {
		return files.Record{}, files.ErrNotFound
	}
	uid, ok := parseID(userID)
	if !ok {
		return files.Record{}, files.ErrNotFound
	}

	row := r.db.QueryRow(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id = $1 AND user_id = $2`, fid, uid)
	return scanFile(row)
}

func (r *Files) FindByID(ctx context.Context, id string) (files.Record, error) {
	fid, ok := parseID(id)
	if !ok {
		return files.Record{}, files.ErrNotFound
	}

	row := r.db.QueryRow(ctx, `SELECT `+fileColumns+` FROM files WHERE id = $1`, fid)
	return scanFile(row)
}

func (r *Files) ListPage(ctx context.Context, userID, parentID string, page, pageSize int) ([]files.Record, error) {
	result := []files.Record{}

	uid, ok := parseID(userID)
	if !ok {
		return result, nil
	}
	parent, err := nullableID(parentID)
	if err != nil {
		return result, nil
	}
	offset, ok := files.PageOffset(page, pageSize)
	if !ok {
		return result, nil
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+fileColumns+`
		FROM files
		WHERE user_id = $1 AND parent_id IS NOT DISTINCT FROM $2::uuid
		ORDER BY seq
		LIMIT $3 OFFSET $4`,
		uid, parent, pageSize, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return result, nil
}

func (r *Files) SetPublic(ctx context.Context, id, userID string, public bool) (files.Record, error) {
	fid, ok := parseID(id)
	if !ok {
		return files.Record{}, files.ErrNotFound
	}
	uid, ok := parseID(userID)
	if !ok {
		return files.Record{}, files.ErrNotFound
	}

	row := r.db.QueryRow(ctx, `
		UPDATE files SET is_public = $3
		WHERE id = $1 AND user_id = $2
		RETURNING `+fileColumns, fid, uid, public)
	return scanFile(row)
}

func (r *Files) CountFiles(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM files`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count files: %w", err)
	}
	return n, nil
}

func scanFile(row pgx.Row) (files.Record, error) {
	var (
		rec      files.Record
		id, uid  uuid.UUID
		kind     string
		parent   *uuid.UUID
		blobPath *string
	)
	if err := row.Scan(&id, &uid, &rec.Name, &kind, &rec.IsPublic, &parent, &blobPath); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return files.Record{}, files.ErrNotFound
		}
		return files.Record{}, fmt.Errorf("scan file: %w", err)
	}

	rec.ID = id.String()
	rec.OwnerID = uid.String()
	rec.Kind = files.Kind(kind)
	if parent != nil {
		rec.ParentID = parent.String()
	}
	if blobPath != nil {
		rec.BlobPath = *blobPath
	}
	return rec, nil
}

// nullableID maps the root to NULL.
func nullableID(id string) (*uuid.UUID, error) {
	if id == files.RootParentID {
		return nil, nil
	}
	u, ok := parseID(id)
	if !ok {
		return nil, fmt.Errorf("invalid id %q", id)
	}
	return &u, nil
}

var _ files.Repository = (*Files)(nil)
