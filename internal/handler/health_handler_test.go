package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"echoboard/internal/handler"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	r := newRouter(uuid.Nil)
	r.GET("/health", handler.NewHealthHandler(pingerFunc(func(context.Context) error { return nil })).Health)

	resp := doJSON(r, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "ok", decode(resp)["status"])
}

func TestHealth_DatabaseDown(t *testing.T) {
	r := newRouter(uuid.Nil)
	r.GET("/health", handler.NewHealthHandler(pingerFunc(func(context.Context) error {
		return errors.New("connection refused")
	})).Health)

	resp := doJSON(r, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
