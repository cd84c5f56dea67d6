package files_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filesmanager/internal/files"
	"github.com/dmitrymomot/filesmanager/internal/repository"
	"github.com/dmitrymomot/filesmanager/pkg/job"
	"github.com/dmitrymomot/filesmanager/pkg/storage"
)

const (
	alice = "user-alice"
	bob   = "user-bob"
)

type enqueued struct {
	task    string
	payload any
	opts    int
}

type fakeDispatcher struct {
	mu    sync.Mutex
	calls []enqueued
	err   error
}

func (d *fakeDispatcher) Enqueue(_ context.Context, task string, payload any, opts ...job.EnqueueOption) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, enqueued{task: task, payload: payload, opts: len(opts)})
	return d.err
}

type failingInsert struct {
	*repository.MemoryFiles
}

func (failingInsert) Insert(context.Context, files.Record) (files.Record, error) {
	return files.Record{}, errors.New("connection reset")
}

type failingStorage struct {
	storage.Storage
}

func (failingStorage) Put(context.Context, string, io.Reader, int64, string) (string, error) {
	return "", storage.ErrWriteFailed
}

type env struct {
	svc   *files.Service
	repo  *repository.MemoryFiles
	local *storage.Local
	jobs  *fakeDispatcher
}

func newEnv(t *testing.T) env {
	t.Helper()

	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	repo := repository.NewMemoryFiles()
	jobs := &fakeDispatcher{}
	svc := files.NewService(repo, files.NewBlobStore(local, 0), files.WithDispatcher(jobs))
	return env{svc: svc, repo: repo, local: local, jobs: jobs}
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func blobCount(t *testing.T, root string) int {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	return len(entries)
}

func TestUpload_ValidationOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   files.UploadInput
		want error
	}{
		{"everything missing", files.UploadInput{}, files.ErrMissingName},
		{"name before type", files.UploadInput{Type: "unknown"}, files.ErrMissingName},
		{"missing type", files.UploadInput{Name: "a.txt"}, files.ErrMissingType},
		{"unknown type", files.UploadInput{Name: "a.txt", Type: "video", Data: b64("x")}, files.ErrMissingType},
		{"missing data for file", files.UploadInput{Name: "a.txt", Type: "file"}, files.ErrMissingData},
		{"missing data for image", files.UploadInput{Name: "a.png", Type: "image"}, files.ErrMissingData},
		{"malformed data", files.UploadInput{Name: "a.txt", Type: "file", Data: "not base64!"}, files.ErrInvalidData},
		{"data before parent", files.UploadInput{Name: "a.txt", Type: "file", ParentID: "nope"}, files.ErrMissingData},
		{"unknown parent", files.UploadInput{Name: "a.txt", Type: "file", Data: b64("x"), ParentID: "nope"}, files.ErrParentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newEnv(t)
			_, err := e.svc.Upload(context.Background(), alice, tt.in)
			require.ErrorIs(t, err, tt.want)

			assert.Zero(t, blobCount(t, e.local.Root()), "no blob on validation failure")
			n, err := e.repo.CountFiles(context.Background())
			require.NoError(t, err)
			assert.Zero(t, n, "no record on validation failure")
		})
	}
}

func TestUpload_FolderAtRoot(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	rec, err := e.svc.Upload(context.Background(), alice, files.UploadInput{
		Name: "images", Type: "folder", Data: b64("ignored"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, alice, rec.OwnerID)
	assert.Equal(t, files.KindFolder, rec.Kind)
	assert.Equal(t, files.RootParentID, rec.ParentID)
	assert.Empty(t, rec.BlobPath)
	assert.False(t, rec.IsPublic)
	assert.Zero(t, blobCount(t, e.local.Root()))
	assert.Empty(t, e.jobs.calls)
}

func TestUpload_FileIntoFolder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	folder, err := e.svc.Upload(ctx, alice, files.UploadInput{Name: "docs", Type: "folder"})
	require.NoError(t, err)

	rec, err := e.svc.Upload(ctx, alice, files.UploadInput{
		Name: "hello.txt", Type: "file", ParentID: files.ParentRef(folder.ID), Data: b64("Hello Webstack!"),
	})
	require.NoError(t, err)
	assert.Equal(t, folder.ID, rec.ParentID)
	require.NotEmpty(t, rec.BlobPath)

	raw, err := os.ReadFile(rec.BlobPath)
	require.NoError(t, err)
	assert.Equal(t, "Hello Webstack!", string(raw))
	assert.Empty(t, e.jobs.calls, "plain files are not dispatched")
}

func TestUpload_BinaryContentIsKeptVerbatim(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	data := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff, 0xfe}
	rec, err := e.svc.Upload(context.Background(), alice, files.UploadInput{
		Name: "a.bin", Type: "file", Data: base64.StdEncoding.EncodeToString(data),
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(rec.BlobPath)
	require.NoError(t, err)
	assert.Equal(t, data, raw)
}

func TestUpload_ParentChecks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	file, err := e.svc.Upload(ctx, alice, files.UploadInput{Name: "a.txt", Type: "file", Data: b64("a")})
	require.NoError(t, err)
	bobsFolder, err := e.svc.Upload(ctx, bob, files.UploadInput{Name: "bob", Type: "folder"})
	require.NoError(t, err)
	before := blobCount(t, e.local.Root())

	_, err = e.svc.Upload(ctx, alice, files.UploadInput{
		Name: "b.txt", Type: "file", Data: b64("b"), ParentID: files.ParentRef(file.ID),
	})
	require.ErrorIs(t, err, files.ErrParentNotFolder)

	_, err = e.svc.Upload(ctx, alice, files.UploadInput{
		Name: "c.txt", Type: "file", Data: b64("c"), ParentID: files.ParentRef(bobsFolder.ID),
	})
	require.ErrorIs(t, err, files.ErrParentNotFound, "another owner's folder is invisible")

	assert.Equal(t, before, blobCount(t, e.local.Root()))
}

func TestUpload_ImageDispatchesThumbnails(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	rec, err := e.svc.Upload(context.Background(), alice, files.UploadInput{
		Name: "a.png", Type: "image", Data: b64("png"),
	})
	require.NoError(t, err)

	require.Len(t, e.jobs.calls, 1)
	call := e.jobs.calls[0]
	assert.Equal(t, files.TaskGenerateThumbnails, call.task)
	assert.Equal(t, files.ThumbnailPayload{UserID: alice, FileID: rec.ID}, call.payload)
	assert.Equal(t, 1, call.opts)
}

func TestUpload_DispatchFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	e.jobs.err = errors.New("queue down")

	rec, err := e.svc.Upload(context.Background(), alice, files.UploadInput{
		Name: "a.png", Type: "image", Data: b64("png"),
	})
	require.NoError(t, err)

	got, err := e.repo.FindByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestUpload_WithoutDispatcher(t *testing.T) {
	t.Parallel()

	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	svc := files.NewService(repository.NewMemoryFiles(), files.NewBlobStore(local, 0))

	_, err = svc.Upload(context.Background(), alice, files.UploadInput{Name: "a.png", Type: "image", Data: b64("png")})
	require.NoError(t, err)
}

func TestUpload_BlobFailureWritesNoRecord(t *testing.T) {
	t.Parallel()

	repo := repository.NewMemoryFiles()
	svc := files.NewService(repo, files.NewBlobStore(failingStorage{}, 0))

	_, err := svc.Upload(context.Background(), alice, files.UploadInput{Name: "a.txt", Type: "file", Data: b64("x")})
	require.ErrorIs(t, err, files.ErrBlobWrite)

	n, err := repo.CountFiles(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpload_InsertFailureLeavesBlob(t *testing.T) {
	t.Parallel()

	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)
	svc := files.NewService(failingInsert{repository.NewMemoryFiles()}, files.NewBlobStore(local, 0))

	_, err = svc.Upload(context.Background(), alice, files.UploadInput{Name: "a.txt", Type: "file", Data: b64("x")})
	require.ErrorIs(t, err, files.ErrMetadataWrite)
	assert.Equal(t, 1, blobCount(t, local.Root()))
}

func TestUpload_IsPublic(t *testing.T) {
	t.Parallel()

	e := newEnv(t)
	for body, want := range map[string]bool{
		`{"name":"a.txt","type":"file","isPublic":true,"data":"eA==","parentId":0}`: true,
		`{"name":"b.txt","type":"file","isPublic":false,"data":"eA=="}`:             false,
		`{"name":"c.txt","type":"file","data":"eA=="}`:                              false,
	} {
		var in files.UploadInput
		require.NoError(t, jsonDecode(body, &in))

		rec, err := e.svc.Upload(context.Background(), alice, in)
		require.NoError(t, err)
		assert.Equal(t, want, rec.IsPublic, body)

		got, err := e.repo.FindByID(context.Background(), rec.ID)
		require.NoError(t, err)
		assert.Equal(t, want, got.IsPublic, body)
	}
}

func TestShowAndSetPublic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	rec, err := e.svc.Upload(ctx, alice, files.UploadInput{Name: "a.txt", Type: "file", Data: b64("a")})
	require.NoError(t, err)

	got, err := e.svc.Show(ctx, alice, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	_, err = e.svc.Show(ctx, bob, rec.ID)
	require.ErrorIs(t, err, files.ErrNotFound)

	_, err = e.svc.SetPublic(ctx, bob, rec.ID, true)
	require.ErrorIs(t, err, files.ErrNotFound)

	pub, err := e.svc.SetPublic(ctx, alice, rec.ID, true)
	require.NoError(t, err)
	assert.True(t, pub.IsPublic)

	again, err := e.svc.SetPublic(ctx, alice, rec.ID, true)
	require.NoError(t, err)
	assert.Equal(t, pub, again, "publishing twice is idempotent")

	priv, err := e.svc.SetPublic(ctx, alice, rec.ID, false)
	require.NoError(t, err)
	assert.Equal(t, rec, priv)
}

func TestIndex(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	folder, err := e.svc.Upload(ctx, alice, files.UploadInput{Name: "docs", Type: "folder"})
	require.NoError(t, err)
	for range 21 {
		_, err := e.svc.Upload(ctx, alice, files.UploadInput{Name: "x.txt", Type: "file", Data: b64("x"), ParentID: files.ParentRef(folder.ID)})
		require.NoError(t, err)
	}
	_, err = e.svc.Upload(ctx, bob, files.UploadInput{Name: "bob", Type: "folder"})
	require.NoError(t, err)

	root, err := e.svc.Index(ctx, alice, "0", "")
	require.NoError(t, err)
	require.Len(t, root, 1)
	assert.Equal(t, folder.ID, root[0].ID)

	page0, err := e.svc.Index(ctx, alice, folder.ID, "abc")
	require.NoError(t, err)
	assert.Len(t, page0, files.PageSize)

	page1, err := e.svc.Index(ctx, alice, folder.ID, "1")
	require.NoError(t, err)
	assert.Len(t, page1, 1)

	unknown, err := e.svc.Index(ctx, alice, "unknown", "0")
	require.NoError(t, err)
	assert.Empty(t, unknown)

	for _, raw := range []string{"922337203685477581", "9223372036854775807", "99999999999999999999"} {
		far, err := e.svc.Index(ctx, alice, folder.ID, raw)
		require.NoError(t, err)
		assert.Empty(t, far, raw)
	}
}

func TestIndex_PagesShareNoIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	const total = 2*files.PageSize + 7
	for i := range total {
		_, err := e.svc.Upload(ctx, alice, files.UploadInput{Name: strconv.Itoa(i), Type: "folder"})
		require.NoError(t, err)
	}

	seen := make(map[string]int)
	for page := 0; ; page++ {
		recs, err := e.svc.Index(ctx, alice, "", strconv.Itoa(page))
		require.NoError(t, err)
		require.LessOrEqual(t, len(recs), files.PageSize)
		if len(recs) == 0 {
			break
		}
		for _, rec := range recs {
			prev, dup := seen[rec.ID]
			require.False(t, dup, "id %s on pages %d and %d", rec.ID, prev, page)
			seen[rec.ID] = page
		}
	}
	assert.Len(t, seen, total)
}

func readContent(t *testing.T, c *files.Content) string {
	t.Helper()
	defer c.Close()
	raw, err := io.ReadAll(c)
	require.NoError(t, err)
	return string(raw)
}

func TestContent_Access(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	rec, err := e.svc.Upload(ctx, alice, files.UploadInput{Name: "hello.txt", Type: "file", Data: b64("Hello")})
	require.NoError(t, err)

	c, err := e.svc.Content(ctx, alice, rec.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "text/plain; charset=utf-8", c.ContentType)
	assert.Equal(t, "Hello", readContent(t, c))

	_, err = e.svc.Content(ctx, "", rec.ID, "")
	require.ErrorIs(t, err, files.ErrNotFound)
	_, err = e.svc.Content(ctx, bob, rec.ID, "")
	require.ErrorIs(t, err, files.ErrNotFound)
	_, err = e.svc.Content(ctx, alice, "missing", "")
	require.ErrorIs(t, err, files.ErrNotFound)

	_, err = e.svc.SetPublic(ctx, alice, rec.ID, true)
	require.NoError(t, err)

	for _, user := range []string{"", bob} {
		c, err := e.svc.Content(ctx, user, rec.ID, "")
		require.NoError(t, err)
		assert.Equal(t, "Hello", readContent(t, c))
	}
}

func TestContent_Folder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	folder, err := e.svc.Upload(ctx, alice, files.UploadInput{Name: "docs", Type: "folder"})
	require.NoError(t, err)

	_, err = e.svc.Content(ctx, alice, folder.ID, "")
	require.ErrorIs(t, err, files.ErrFolderHasNoContent)

	_, err = e.svc.Content(ctx, "", folder.ID, "")
	require.ErrorIs(t, err, files.ErrNotFound, "the gate runs before the kind check")
}

func TestContent_Variants(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	img, err := e.svc.Upload(ctx, alice, files.UploadInput{Name: "photo.png", Type: "image", Data: b64("full")})
	require.NoError(t, err)
	txt, err := e.svc.Upload(ctx, alice, files.UploadInput{Name: "notes.txt", Type: "file", Data: b64("text")})
	require.NoError(t, err)

	_, err = e.svc.Content(ctx, alice, img.ID, "250")
	require.ErrorIs(t, err, files.ErrNotFound, "variant not generated yet")

	_, err = e.local.Put(ctx, img.BlobPath+"_250", strings.NewReader("small"), 5, "")
	require.NoError(t, err)

	c, err := e.svc.Content(ctx, alice, img.ID, "250")
	require.NoError(t, err)
	assert.Equal(t, "image/png", c.ContentType)
	assert.Equal(t, "small", readContent(t, c))

	for _, size := range []string{"../250", "250/../..", "-1", "abc"} {
		_, err = e.svc.Content(ctx, alice, img.ID, size)
		require.ErrorIs(t, err, files.ErrNotFound, size)
	}

	c, err = e.svc.Content(ctx, alice, txt.ID, "500")
	require.NoError(t, err, "size is ignored for plain files")
	assert.Equal(t, "text", readContent(t, c))
}

func TestContent_MissingBlob(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	e := newEnv(t)

	rec, err := e.svc.Upload(ctx, alice, files.UploadInput{Name: "a.txt", Type: "file", Data: b64("a")})
	require.NoError(t, err)
	require.NoError(t, e.local.Delete(ctx, rec.BlobPath))

	_, err = e.svc.Content(ctx, alice, rec.ID, "")
	require.ErrorIs(t, err, files.ErrNotFound)
}
