package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(Validation("bad input")))
	assert.Equal(t, KindConflict, KindOf(Conflict("duplicate")))
	assert.Equal(t, KindNotFound, KindOf(NotFound("missing")))
	assert.Equal(t, KindForbidden, KindOf(Forbidden("no")))
	assert.Equal(t, KindInvalidState, KindOf(InvalidState("settled")))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("context: %w", Conflict("duplicate"))
	assert.Equal(t, KindConflict, KindOf(err))
	assert.True(t, Is(err, KindConflict))
	assert.False(t, Is(err, KindNotFound))
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{Conflict("dup"), http.StatusConflict},
		{InvalidState("settled"), http.StatusConflict},
		{NotFound("missing"), http.StatusNotFound},
		{Forbidden("no"), http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), "error: %v", tc.err)
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &Error{Kind: KindConflict, Message: "outer", Err: inner}
	assert.Equal(t, "outer", err.Error())
	assert.ErrorIs(t, err, inner)
}
