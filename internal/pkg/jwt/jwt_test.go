package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	token, err := Sign("acc-1", time.Hour)
	require.NoError(t, err)

	claims, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "acc-1", claims.Subject)
}

func TestSign_RequiresAccount(t *testing.T) {
	_, err := Sign("", time.Hour)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := Sign("acc-1", -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token)
	assert.ErrorIs(t, err, jwtlib.ErrTokenExpired)
}

func TestParse_WrongSecret(t *testing.T) {
	foreign := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{AccountID: "acc-1"})
	raw, err := foreign.SignedString([]byte("someone-else"))
	require.NoError(t, err)

	_, err = Parse(raw)
	assert.Error(t, err)
}

func TestParse_RejectsNoneAlgorithm(t *testing.T) {
	unsigned := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{AccountID: "acc-1"})
	raw, err := unsigned.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Parse(raw)
	assert.Error(t, err)
}
