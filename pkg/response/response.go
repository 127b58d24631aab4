package response

import (
	"errors"
	"net/http"

	"echoboard/internal/apperr"
	"echoboard/pkg/logger"

	"github.com/gin-gonic/gin"
)

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.Validation, apperr.InvalidOperation:
		return http.StatusBadRequest
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound, apperr.Expired:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Code is the machine readable kind name sent alongside msg.
func Code(err error) string {
	if kind := apperr.KindOf(err); kind != nil {
		return kind.Error()
	}
	return "internal"
}

// JSON writes a body with msg merged into payload.
func JSON(c *gin.Context, status int, msg string, payload gin.H) {
	body := gin.H{"msg": msg}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// OK sends 200 with msg and payload.
func OK(c *gin.Context, msg string, payload gin.H) {
	JSON(c, http.StatusOK, msg, payload)
}

// Created sends 201 with msg and payload.
func Created(c *gin.Context, msg string, payload gin.H) {
	JSON(c, http.StatusCreated, msg, payload)
}

// Error converts err into a JSON error body. Unclassified errors are logged
// and answered with a generic 500.
func Error(c *gin.Context, err error) {
	ErrorWith(c, err, nil)
}

// ErrorWith is Error with extra payload fields, e.g. per-entry failures.
func ErrorWith(c *gin.Context, err error, payload gin.H) {
	status := StatusOf(err)
	msg := apperr.Message(err, "Internal server error")

	var appErr *apperr.Error
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		if !errors.As(err, &appErr) {
			msg = "Internal server error"
		}
	} else if !errors.As(err, &appErr) {
		msg = Code(err)
	}
	_ = c.Error(err)

	body := gin.H{"error": Code(err)}
	for k, v := range payload {
		body[k] = v
	}
	JSON(c, status, msg, body)
}
