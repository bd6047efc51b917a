package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "warehub/internal/errors"
)

func TestMapToHTTPStatus(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		status   int
		category string
	}{
		{"validation", apperror.NewValidationError("x"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"unauthorized", apperror.NewUnauthorizedError("x"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", apperror.NewForbiddenError("x"), http.StatusForbidden, "FORBIDDEN"},
		{"not found", apperror.NewNotFoundError("x"), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", apperror.NewConflictError("x"), http.StatusConflict, "CONFLICT"},
		{"rate limit", apperror.NewRateLimitError("x"), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"internal", apperror.NewDBError("falha", errors.New("pq: boom")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"wrapped", fmt.Errorf("contexto: %w", apperror.NewNotFoundError("x")), http.StatusNotFound, "NOT_FOUND"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, "UNKNOWN_ERROR"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, category, _ := apperror.MapToHTTPStatus(tc.err)
			assert.Equal(t, tc.status, status)
			assert.Equal(t, tc.category, category)
		})
	}
}

func TestMapToHTTPStatus_HidesInternalDetails(t *testing.T) {
	_, _, msg := apperror.MapToHTTPStatus(apperror.NewDBError("falha ao inserir", errors.New("pq: senha incorreta")))
	assert.NotContains(t, msg, "pq:")
}

func TestInternalError_Unwrap(t *testing.T) {
	root := errors.New("conexão recusada")
	err := apperror.NewDBError("falha", root)
	assert.ErrorIs(t, err, root)
}

func TestFieldsOf(t *testing.T) {
	err := apperror.NewFieldValidationError("dados inválidos", apperror.FieldError{Field: "occupied", Message: "muito grande"})
	fields := apperror.FieldsOf(fmt.Errorf("wrap: %w", err))
	assert.Len(t, fields, 1)
	assert.Equal(t, "occupied", fields[0].Field)

	assert.Nil(t, apperror.FieldsOf(errors.New("x")))
}
