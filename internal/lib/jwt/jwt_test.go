package jwt

import (
	"testing"
	"time"

	"asteca_portfolio/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewToken_ParseToken(t *testing.T) {
	user := models.User{ID: uuid.New(), Username: "admin"}
	sessionID := uuid.NewString()

	token, err := NewToken(user, sessionID, "secret", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)

	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, sessionID, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParseToken_Rejects(t *testing.T) {
	user := models.User{ID: uuid.New(), Username: "admin"}

	t.Run("wrong secret", func(t *testing.T) {
		token, err := NewToken(user, "sid", "secret", time.Hour)
		require.NoError(t, err)

		_, err = ParseToken(token, "other")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := NewToken(user, "sid", "secret", -time.Minute)
		require.NoError(t, err)

		_, err = ParseToken(token, "secret")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseToken("not-a-token", "secret")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
