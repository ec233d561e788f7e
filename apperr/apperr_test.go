package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("store.Delete: %w", NotFound("entry not found"))

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(nil, KindNotFound))
}

func TestForeignErrorsAreOperational(t *testing.T) {
	assert.Equal(t, KindOperational, KindOf(errors.New("connection refused")))
}

func TestStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:     http.StatusBadRequest,
		KindAuthentication: http.StatusUnauthorized,
		KindForbidden:      http.StatusForbidden,
		KindNotFound:       http.StatusNotFound,
		KindConflict:       http.StatusConflict,
		KindOperational:    http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.Status(), kind.String())
	}
}

func TestUnwrapKeepsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Operational("failed to save entry", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save entry: dial tcp: refused", err.Error())
}
