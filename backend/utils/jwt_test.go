package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartlms/backend/utils"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := utils.GenerateSessionToken(42, "secret")
	require.NoError(t, err)

	userID, err := utils.ParseSessionToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := utils.GenerateSessionToken(42, "secret")
	require.NoError(t, err)

	_, err = utils.ParseSessionToken(token, "other")
	assert.Error(t, err)
}

func TestSessionTokenGarbage(t *testing.T) {
	_, err := utils.ParseSessionToken("not.a.token", "secret")
	assert.Error(t, err)
}
