package middlewares_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/filesmanager/internal"
	"github.com/dmitrymomot/filesmanager/pkg/logger"
)

// testContext is a minimal internal.Context over an httptest recorder.
type testContext struct {
	context.Context
	response http.ResponseWriter
	request  *http.Request
	written  bool
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{Context: r.Context(), response: w, request: r}
}

func (c *testContext) Request() *http.Request        { return c.request }
func (c *testContext) Response() http.ResponseWriter { return c.response }
func (c *testContext) Param(string) string           { return "" }
func (c *testContext) Query(name string) string      { return c.request.URL.Query().Get(name) }
func (c *testContext) Header(name string) string     { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string)  { c.response.Header().Set(name, value) }
func (c *testContext) BindJSON(v any) error          { return json.NewDecoder(c.request.Body).Decode(v) }

func (c *testContext) JSON(code int, v any) error {
	c.written = true
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *testContext) NoContent(code int) error {
	c.written = true
	c.response.WriteHeader(code)
	return nil
}

func (c *testContext) Stream(code int, contentType string, r io.Reader) error {
	c.written = true
	c.response.Header().Set("Content-Type", contentType)
	c.response.WriteHeader(code)
	_, err := io.Copy(c.response, r)
	return err
}

func (c *testContext) Written() bool { return c.written }

func (c *testContext) UserID() string {
	return internal.ContextValue[string](c, internal.UserIDKey{})
}

func (c *testContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
	c.Context = ctx
}

func (c *testContext) Set(key, value any) {
	c.SetContext(context.WithValue(c.request.Context(), key, value))
}

func (c *testContext) Get(key any) any { return c.request.Context().Value(key) }

func (c *testContext) Logger() *slog.Logger    { return logger.NewNope() }
func (c *testContext) LogInfo(string, ...any)  {}
func (c *testContext) LogWarn(string, ...any)  {}
func (c *testContext) LogError(string, ...any) {}

var _ internal.Context = (*testContext)(nil)
