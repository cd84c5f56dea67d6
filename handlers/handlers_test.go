package handlers_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/filesmanager"
	"github.com/dmitrymomot/filesmanager/handlers"
	"github.com/dmitrymomot/filesmanager/internal/auth"
	"github.com/dmitrymomot/filesmanager/internal/files"
	"github.com/dmitrymomot/filesmanager/internal/repository"
	"github.com/dmitrymomot/filesmanager/internal/users"
	"github.com/dmitrymomot/filesmanager/middlewares"
	"github.com/dmitrymomot/filesmanager/pkg/cache"
	"github.com/dmitrymomot/filesmanager/pkg/storage"
)

type server struct {
	t   *testing.T
	app *filesmanager.App
}

func newServer(t *testing.T, statusOpts ...handlers.StatusOption) *server {
	t.Helper()

	local, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	fileSvc := files.NewService(repository.NewMemoryFiles(), files.NewBlobStore(local, time.Second))
	userSvc := users.NewService(repository.NewMemoryUsers(), users.WithBcryptCost(bcrypt.MinCost))
	tokens := auth.NewTokens(cache.NewMemory[string](), time.Hour)

	app := filesmanager.New(
		filesmanager.WithErrorHandler(middlewares.ErrorHandler(handlers.ErrorMappings()...)),
		filesmanager.WithMiddleware(middlewares.Recover()),
		filesmanager.WithHandlers(
			handlers.NewUsers(userSvc, tokens),
			handlers.NewFiles(fileSvc, tokens),
			handlers.NewStatus(userSvc, fileSvc, statusOpts...),
		),
	)
	return &server{t: t, app: app}
}

type request struct {
	method string
	path   string
	body   string
	token  string
	basic  [2]string
}

func (s *server) do(r request) *httptest.ResponseRecorder {
	s.t.Helper()

	var req *http.Request
	if r.body != "" {
		req = httptest.NewRequest(r.method, r.path, strings.NewReader(r.body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(r.method, r.path, nil)
	}
	if r.token != "" {
		req.Header.Set("X-Token", r.token)
	}
	if r.basic[0] != "" {
		req.SetBasicAuth(r.basic[0], r.basic[1])
	}

	rec := httptest.NewRecorder()
	s.app.ServeHTTP(rec, req)
	return rec
}

// login registers email and returns a session token.
func (s *server) login(email string) string {
	s.t.Helper()

	rec := s.do(request{method: http.MethodPost, path: "/users", body: `{"email":"` + email + `","password":"secret"}`})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(request{method: http.MethodGet, path: "/connect", basic: [2]string{email, "secret"}})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct{ Token string }
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.NotEmpty(s.t, out.Token)
	return out.Token
}

func (s *server) upload(token, body string) map[string]any {
	s.t.Helper()

	rec := s.do(request{method: http.MethodPost, path: "/files", body: body, token: token})
	require.Equal(s.t, http.StatusCreated, rec.Code, rec.Body.String())

	var out map[string]any
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func b64(s string) string {
	return base64.StdEncoding.EncodeToString([]byte(s))
}

func TestUsers(t *testing.T) {
	t.Parallel()

	s := newServer(t)

	tests := []struct {
		body string
		want string
	}{
		{``, `{"error":"Missing email"}`},
		{`{"password":"x"}`, `{"error":"Missing email"}`},
		{`{"email":"bob@dylan.com"}`, `{"error":"Missing password"}`},
	}
	for _, tt := range tests {
		rec := s.do(request{method: http.MethodPost, path: "/users", body: tt.body})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, tt.want, rec.Body.String())
	}

	token := s.login("bob@dylan.com")

	rec := s.do(request{method: http.MethodPost, path: "/users", body: `{"email":"bob@dylan.com","password":"x"}`})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Already exist"}`, rec.Body.String())

	rec = s.do(request{method: http.MethodGet, path: "/users/me", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "bob@dylan.com", me["email"])
	assert.NotEmpty(t, me["id"])

	rec = s.do(request{method: http.MethodGet, path: "/connect", basic: [2]string{"bob@dylan.com", "wrong"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String())

	rec = s.do(request{method: http.MethodGet, path: "/connect"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(request{method: http.MethodGet, path: "/disconnect", token: token})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(request{method: http.MethodGet, path: "/users/me", token: token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(request{method: http.MethodGet, path: "/disconnect", token: token})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFiles_RequireToken(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	for _, r := range []request{
		{method: http.MethodPost, path: "/files", body: `{}`},
		{method: http.MethodGet, path: "/files"},
		{method: http.MethodGet, path: "/files/x"},
		{method: http.MethodPut, path: "/files/x/publish"},
		{method: http.MethodPut, path: "/files/x/unpublish", token: "unknown"},
	} {
		rec := s.do(r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, r.path)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, rec.Body.String(), r.path)
	}
}

func TestFiles_UploadValidation(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	token := s.login("bob@dylan.com")
	file := s.upload(token, `{"name":"a.txt","type":"file","data":"`+b64("a")+`"}`)

	tests := []struct {
		body string
		want string
	}{
		{``, "Missing name"},
		{`{"type":"file","data":"eA=="}`, "Missing name"},
		{`{"name":"a"}`, "Missing type"},
		{`{"name":"a","type":"video"}`, "Missing type"},
		{`{"name":"a","type":"file"}`, "Missing data"},
		{`{"name":"a","type":"image","parentId":0}`, "Missing data"},
		{`{"name":"a","type":"file","data":"%%%"}`, "Invalid data"},
		{`{"name":"a","type":"folder","parentId":"5f1e7d1c0000000000000000"}`, "Parent not found"},
		{`{"name":"a","type":"folder","parentId":"` + file["id"].(string) + `"}`, "Parent is not a folder"},
		{`{"name":`, "Invalid JSON body"},
	}
	for _, tt := range tests {
		rec := s.do(request{method: http.MethodPost, path: "/files", body: tt.body, token: token})
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.body)
		assert.JSONEq(t, `{"error":"`+tt.want+`"}`, rec.Body.String(), tt.body)
	}
}

func TestFiles_Lifecycle(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	bob := s.login("bob@dylan.com")
	eve := s.login("eve@example.com")

	folder := s.upload(bob, `{"name":"images","type":"folder","isPublic":true}`)
	assert.Equal(t, "images", folder["name"])
	assert.Equal(t, "folder", folder["type"])
	assert.Equal(t, true, folder["isPublic"])
	assert.Equal(t, float64(0), folder["parentId"])
	folderID := folder["id"].(string)

	file := s.upload(bob, `{"name":"hello.txt","type":"file","parentId":"`+folderID+`","data":"`+b64("Hello Webstack!")+`"}`)
	assert.Equal(t, folderID, file["parentId"])
	fileID := file["id"].(string)
	assert.NotContains(t, file, "localPath")

	rec := s.do(request{method: http.MethodGet, path: "/files/" + fileID, token: bob})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"hello.txt"`)

	rec = s.do(request{method: http.MethodGet, path: "/files/" + fileID, token: eve})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())

	rec = s.do(request{method: http.MethodGet, path: "/files?parentId=" + folderID, token: bob})
	require.Equal(t, http.StatusOK, rec.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, fileID, list[0]["id"])

	rec = s.do(request{method: http.MethodGet, path: "/files?page=7", token: bob})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(request{method: http.MethodGet, path: "/files", token: eve})
	assert.JSONEq(t, `[]`, rec.Body.String())

	// Content is private until published.
	rec = s.do(request{method: http.MethodGet, path: "/files/" + fileID + "/data"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = s.do(request{method: http.MethodGet, path: "/files/" + fileID + "/data", token: eve})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(request{method: http.MethodGet, path: "/files/" + fileID + "/data", token: bob})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello Webstack!", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))

	rec = s.do(request{method: http.MethodPut, path: "/files/" + fileID + "/publish", token: eve})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(request{method: http.MethodPut, path: "/files/" + fileID + "/publish", token: bob})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isPublic":true`)

	rec = s.do(request{method: http.MethodGet, path: "/files/" + fileID + "/data", token: "stale"})
	require.Equal(t, http.StatusOK, rec.Code, "an invalid token reads as anonymous")
	assert.Equal(t, "Hello Webstack!", rec.Body.String())

	rec = s.do(request{method: http.MethodPut, path: "/files/" + fileID + "/unpublish", token: bob})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"isPublic":false`)

	rec = s.do(request{method: http.MethodGet, path: "/files/" + fileID + "/data"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(request{method: http.MethodGet, path: "/files/" + folderID + "/data", token: bob})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"A folder doesn't have content"}`, rec.Body.String())
}

func TestFiles_ImageVariants(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	token := s.login("bob@dylan.com")
	img := s.upload(token, `{"name":"photo.png","type":"image","data":"`+b64("png")+`"}`)
	id := img["id"].(string)

	rec := s.do(request{method: http.MethodGet, path: "/files/" + id + "/data?size=500", token: token})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(request{method: http.MethodGet, path: "/files/" + id + "/data", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestStatus(t *testing.T) {
	t.Parallel()

	s := newServer(t,
		handlers.WithRedisCheck(func(context.Context) error { return errors.New("down") }),
		handlers.WithDBCheck(func(context.Context) error { return nil }),
	)

	rec := s.do(request{method: http.MethodGet, path: "/status"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"redis":false,"db":true}`, rec.Body.String())
}

func TestStats(t *testing.T) {
	t.Parallel()

	s := newServer(t, handlers.WithStatsCache(cache.NewMemory[handlers.StatsResponse](), time.Hour))

	rec := s.do(request{method: http.MethodGet, path: "/stats"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"users":0,"files":0}`, rec.Body.String())

	token := s.login("bob@dylan.com")
	s.upload(token, `{"name":"docs","type":"folder"}`)

	rec = s.do(request{method: http.MethodGet, path: "/stats"})
	assert.JSONEq(t, `{"users":0,"files":0}`, rec.Body.String(), "served from cache")

	fresh := newServer(t)
	token = fresh.login("bob@dylan.com")
	fresh.upload(token, `{"name":"docs","type":"folder"}`)

	rec = fresh.do(request{method: http.MethodGet, path: "/stats"})
	assert.JSONEq(t, `{"users":1,"files":1}`, rec.Body.String())
}

func TestFiles_UploadPublic(t *testing.T) {
	t.Parallel()

	s := newServer(t)
	token := s.login("bob@dylan.com")

	file := s.upload(token, `{"name":"pub.txt","type":"file","isPublic":true,"data":"`+b64("shared")+`"}`)
	assert.Equal(t, true, file["isPublic"])

	rec := s.do(request{method: http.MethodGet, path: "/files/" + file["id"].(string) + "/data"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shared", rec.Body.String())

	rec = s.do(request{method: http.MethodGet, path: "/files?page=9223372036854775807", token: token})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}
