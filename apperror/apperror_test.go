package apperror

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := map[*Error]int{
		Validation("bad"):                          http.StatusBadRequest,
		Unauthorized("no"):                         http.StatusUnauthorized,
		NotFound("gone"):                           http.StatusNotFound,
		ServiceUnavailable("down", nil):            http.StatusServiceUnavailable,
		Gateway("upstream", "detail", nil):         http.StatusBadGateway,
		Internal("boom", errors.New("underlying")): http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, err.Status(), err.Message)
	}
}

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	wrapped := errors.Wrap(NotFound("Product not found"), "get product")

	appErr := As(wrapped)
	assert.Equal(t, KindNotFound, appErr.Kind)
	assert.True(t, IsKind(wrapped, KindNotFound))
	assert.False(t, IsKind(wrapped, KindValidation))
}

func TestAsFallsBackToInternal(t *testing.T) {
	appErr := As(errors.New("plain"))
	assert.Equal(t, KindInternal, appErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status())
}

func TestWithCode(t *testing.T) {
	err := Validation("Missing required fields").WithCode(CodeMissingFields)
	assert.Equal(t, CodeMissingFields, err.Code)
	assert.Equal(t, "Missing required fields", err.Error())
}
