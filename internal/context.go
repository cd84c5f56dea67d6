package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// UserIDKey is the context key under which authentication middleware
// stores the resolved user id.
type UserIDKey struct{}

// Context provides request and response access for a handler.
// It also implements context.Context by delegating to the request context.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter

	// Param returns a URL path parameter, or "" when absent.
	Param(name string) string
	// Query returns a query string parameter, or "" when absent.
	Query(name string) string
	Header(name string) string
	SetHeader(name, value string)

	// BindJSON decodes the request body into v.
	BindJSON(v any) error

	JSON(code int, v any) error
	NoContent(code int) error
	// Stream copies r to the response with the given content type.
	Stream(code int, contentType string, r io.Reader) error

	// Written reports whether the response has been started.
	Written() bool

	// UserID returns the authenticated user id, or "" for anonymous requests.
	UserID() string

	// SetContext replaces the request context, e.g. to install a deadline.
	SetContext(ctx context.Context)
	// Set stores a value in the request context.
	Set(key, value any)
	// Get returns a value from the request context, or nil.
	Get(key any) any

	Logger() *slog.Logger
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)
}

// ErrInvalidJSON is returned by BindJSON for malformed bodies.
var ErrInvalidJSON = errors.New("invalid JSON body")

type requestContext struct {
	context.Context

	request  *http.Request
	response *ResponseWriter
	logger   *slog.Logger
}

func newContext(w http.ResponseWriter, r *http.Request, logger *slog.Logger) *requestContext {
	return &requestContext{
		Context:  r.Context(),
		request:  r,
		response: NewResponseWriter(w),
		logger:   logger,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) BindJSON(v any) error {
	if c.request.Body == nil {
		return ErrInvalidJSON
	}
	if err := json.NewDecoder(c.request.Body).Decode(v); err != nil {
		return errors.Join(ErrInvalidJSON, err)
	}
	return nil
}

func (c *requestContext) JSON(code int, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	_, err = c.response.Write(data)
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Stream(code int, contentType string, r io.Reader) error {
	c.response.Header().Set("Content-Type", contentType)
	if sized, ok := r.(interface{ Size() int64 }); ok {
		c.response.Header().Set("Content-Length", strconv.FormatInt(sized.Size(), 10))
	}
	c.response.WriteHeader(code)
	_, err := io.Copy(c.response, r)
	return err
}

func (c *requestContext) Written() bool {
	return c.response.Written()
}

func (c *requestContext) UserID() string {
	id, _ := c.Get(UserIDKey{}).(string)
	return id
}

// SetContext swaps the request so that handlers further down the chain
// observe ctx.
func (c *requestContext) SetContext(ctx context.Context) {
	c.request = c.request.WithContext(ctx)
	c.Context = ctx
}

func (c *requestContext) Set(key, value any) {
	c.SetContext(context.WithValue(c.request.Context(), key, value))
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}
