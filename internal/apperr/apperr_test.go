package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatusMapping(t *testing.T) {
	cases := map[int]error{
		http.StatusNotFound:            NotFound("missing"),
		http.StatusForbidden:           Forbidden("nope"),
		http.StatusBadRequest:          BadRequest("bad"),
		http.StatusConflict:            Conflict("dup"),
		http.StatusInternalServerError: Internal("boom", errors.New("db down")),
	}
	for want, err := range cases {
		require.Equal(t, want, Status(err))
	}
}

func TestUnknownErrorIsInternal(t *testing.T) {
	require.Equal(t, KindInternal, KindOf(errors.New("something else")))
	require.Equal(t, http.StatusInternalServerError, Status(errors.New("something else")))
}

func TestKindOfSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("loading profile: %w", NotFound("user not found"))
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal("query failed", cause)
	require.ErrorIs(t, err, cause)
	require.Equal(t, "query failed", err.Error())
}
