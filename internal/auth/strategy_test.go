package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-movie-api/internal/model"
)

func TestAuthorizeSelf(t *testing.T) {
	alice := model.User{Username: "alice12"}

	assert.NoError(t, AuthorizeSelf(alice, "alice12"))
	assert.NoError(t, AuthorizeSelf(alice, "ALICE12"))

	for _, target := range []string{"bob99", "", "  ", "alice123"} {
		err := AuthorizeSelf(alice, target)
		assert.ErrorIs(t, err, model.ErrPermissionDenied, "target %q", target)
	}
}

func TestBearerToken(t *testing.T) {
	token, err := BearerToken("bearer abc.def.ghi")
	assert.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		_, err := BearerToken(header)
		assert.Error(t, err, "header %q", header)
	}
}
