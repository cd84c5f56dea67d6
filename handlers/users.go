package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrymomot/filesmanager"
	"github.com/dmitrymomot/filesmanager/internal"
	"github.com/dmitrymomot/filesmanager/internal/auth"
	"github.com/dmitrymomot/filesmanager/internal/users"
	"github.com/dmitrymomot/filesmanager/middlewares"
)

// Users serves registration and the session endpoints.
type Users struct {
	svc    *users.Service
	tokens *auth.Tokens
}

func NewUsers(svc *users.Service, tokens *auth.Tokens) *Users {
	return &Users{svc: svc, tokens: tokens}
}

func (h *Users) Routes(r filesmanager.Router) {
	r.POST("/users", h.register)
	r.GET("/connect", h.connect)

	r.Group(func(r filesmanager.Router) {
		r.Use(middlewares.TokenAuth(h.tokens))

		r.GET("/disconnect", h.disconnect)
		r.GET("/users/me", h.me)
	})
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (h *Users) register(c filesmanager.Context) error {
	var req registerRequest
	if err := c.BindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		return internal.ErrBadRequest("Invalid JSON body", internal.WithError(err))
	}

	u, err := h.svc.Register(c, req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u.View())
}

// connect exchanges Basic credentials for a session token.
func (h *Users) connect(c filesmanager.Context) error {
	email, password, ok := c.Request().BasicAuth()
	if !ok {
		return internal.ErrUnauthorized(middlewares.UnauthorizedMessage)
	}

	u, err := h.svc.Authenticate(c, email, password)
	if err != nil {
		return err
	}

	token, err := h.tokens.Issue(c, u.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

func (h *Users) disconnect(c filesmanager.Context) error {
	if err := h.tokens.Revoke(c, middlewares.GetToken(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Users) me(c filesmanager.Context) error {
	u, err := h.svc.Get(c, c.UserID())
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return internal.ErrUnauthorized(middlewares.UnauthorizedMessage, internal.WithError(err))
		}
		return err
	}
	return c.JSON(http.StatusOK, u.View())
}
