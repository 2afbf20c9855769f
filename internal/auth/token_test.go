package auth

import (
	"testing"

	apperrors "chat-tester/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMintAndParseRoundTrip(t *testing.T) {
	token, err := Mint("s3cret", 7, "Sage")
	require.NoError(t, err)

	id, err := ParseUserID("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestParseUserIDRejectsBadTokens(t *testing.T) {
	token, err := Mint("s3cret", 1, "Jett")
	require.NoError(t, err)

	_, err = ParseUserID("other-secret", token)
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))

	_, err = ParseUserID("s3cret", "09x897da82713sgag")
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))
}

func TestMintRequiresSecret(t *testing.T) {
	_, err := Mint("", 1, "Jett")
	assert.True(t, apperrors.Is(err, apperrors.CodeTokenMissing))
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer   abc"))
	assert.Empty(t, BearerToken("abc"))
	assert.Empty(t, BearerToken(""))
	assert.Empty(t, BearerToken("Basic abc"))
}

func TestResolve(t *testing.T) {
	t.Run("literal wins", func(t *testing.T) {
		token, err := Resolve(Source{Token: " literal ", SecretEnv: "CHAT_TESTER_UNUSED"})
		require.NoError(t, err)
		assert.Equal(t, "literal", token)
	})

	t.Run("mints from env secret", func(t *testing.T) {
		t.Setenv("CHAT_TESTER_SECRET", "from-env")
		token, err := Resolve(Source{SecretEnv: "CHAT_TESTER_SECRET", UserID: 1, Username: "Jett"})
		require.NoError(t, err)

		id, err := ParseUserID("from-env", token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("CHAT_TESTER_SECRET", "")
		_, err := Resolve(Source{SecretEnv: "CHAT_TESTER_SECRET"})
		assert.True(t, apperrors.Is(err, apperrors.CodeTokenMissing))

		_, err = Resolve(Source{})
		assert.True(t, apperrors.Is(err, apperrors.CodeTokenMissing))
	})
}
