package internal

// Handler declares routes on a router.
//
//	func (h *Files) Routes(r filesmanager.Router) {
//	    r.GET("/files/{id}", h.show)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc handles a request. A returned error is passed to the
// application's ErrorHandler unless the response was already written.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc.
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders an error returned from a handler.
type ErrorHandler func(Context, error) error
