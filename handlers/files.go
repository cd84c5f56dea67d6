package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrymomot/filesmanager"
	"github.com/dmitrymomot/filesmanager/internal"
	"github.com/dmitrymomot/filesmanager/internal/auth"
	"github.com/dmitrymomot/filesmanager/internal/files"
	"github.com/dmitrymomot/filesmanager/middlewares"
)

// Files serves the /files routes.
type Files struct {
	svc      *files.Service
	resolver auth.Resolver
}

func NewFiles(svc *files.Service, resolver auth.Resolver) *Files {
	return &Files{svc: svc, resolver: resolver}
}

func (h *Files) Routes(r filesmanager.Router) {
	r.Group(func(r filesmanager.Router) {
		r.Use(middlewares.TokenAuth(h.resolver))

		r.POST("/files", h.upload)
		r.GET("/files", h.index)
		r.GET("/files/{id}", h.show)
		r.PUT("/files/{id}/publish", h.publish)
		r.PUT("/files/{id}/unpublish", h.unpublish)
	})

	r.GET("/files/{id}/data", h.content, middlewares.OptionalTokenAuth(h.resolver))
}

func (h *Files) upload(c filesmanager.Context) error {
	var in files.UploadInput
	// An empty body reaches the service so that it reports the first
	// missing field.
	if err := c.BindJSON(&in); err != nil && !errors.Is(err, io.EOF) {
		return internal.ErrBadRequest("Invalid JSON body", internal.WithError(err))
	}

	rec, err := h.svc.Upload(c, c.UserID(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rec.View())
}

func (h *Files) show(c filesmanager.Context) error {
	rec, err := h.svc.Show(c, c.UserID(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec.View())
}

func (h *Files) index(c filesmanager.Context) error {
	recs, err := h.svc.Index(c, c.UserID(), c.Query("parentId"), c.Query("page"))
	if err != nil {
		return err
	}

	views := make([]files.View, 0, len(recs))
	for _, rec := range recs {
		views = append(views, rec.View())
	}
	return c.JSON(http.StatusOK, views)
}

func (h *Files) publish(c filesmanager.Context) error {
	return h.setPublic(c, true)
}

func (h *Files) unpublish(c filesmanager.Context) error {
	return h.setPublic(c, false)
}

func (h *Files) setPublic(c filesmanager.Context, public bool) error {
	rec, err := h.svc.SetPublic(c, c.UserID(), c.Param("id"), public)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec.View())
}

func (h *Files) content(c filesmanager.Context) error {
	content, err := h.svc.Content(c, c.UserID(), c.Param("id"), c.Query("size"))
	if err != nil {
		return err
	}
	defer content.Close()

	return c.Stream(http.StatusOK, content.ContentType, content)
}
