package jwt

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/itchan-dev/msgboard/shared/domain"
	internal_errors "github.com/itchan-dev/msgboard/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenRoundTrip(t *testing.T) {
	svc := New("secret", time.Hour)

	tokenStr, err := svc.NewToken(domain.User{Id: 7, Admin: true})
	require.NoError(t, err)

	token, err := svc.DecodeToken(tokenStr)
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(7), claims["uid"])
	assert.Equal(t, true, claims["admin"])
}

func TestDecodeToken_Rejects(t *testing.T) {
	svc := New("secret", time.Hour)
	other := New("other-secret", time.Hour)
	expired := New("secret", -time.Minute)

	foreign, err := other.NewToken(domain.User{Id: 1})
	require.NoError(t, err)
	stale, err := expired.NewToken(domain.User{Id: 1})
	require.NoError(t, err)

	for name, tokenStr := range map[string]string{
		"garbage":       "not-a-token",
		"wrong secret":  foreign,
		"expired token": stale,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.DecodeToken(tokenStr)
			require.Error(t, err)
			e, ok := err.(*internal_errors.ErrorWithStatusCode)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnauthorized, e.StatusCode)
		})
	}
}
