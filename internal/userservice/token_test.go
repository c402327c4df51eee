package userservice

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/bloglist/internal/common"
)

func TestNewTokenIssuer(t *testing.T) {
	_, err := NewTokenIssuer("")
	assert.ErrorIs(t, err, ErrEmptySecret)

	ti, err := NewTokenIssuer("secret")
	assert.NoError(t, err)
	assert.NotNil(t, ti)
}

func TestTokenIssuer_RoundTrip(t *testing.T) {
	ti, err := NewTokenIssuer("secret")
	require.NoError(t, err)

	id := uuid.New()
	token, err := ti.Issue(id, "root")
	require.NoError(t, err)

	claims, err := ti.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, &Claims{SubjectID: id, Username: "root"}, claims)
}

func TestTokenIssuer_NoExpiry(t *testing.T) {
	ti, err := NewTokenIssuer("secret")
	require.NoError(t, err)

	token, err := ti.Issue(uuid.New(), "root")
	require.NoError(t, err)

	var claims tokenClaims
	_, _, err = jwt.NewParser().ParseUnverified(token, &claims)
	require.NoError(t, err)
	assert.Nil(t, claims.ExpiresAt)
	assert.NotNil(t, claims.IssuedAt)
}

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return token
}

func TestTokenIssuer_Verify(t *testing.T) {
	ti, err := NewTokenIssuer("secret")
	require.NoError(t, err)

	id := uuid.New()
	valid, err := ti.Issue(id, "root")
	require.NoError(t, err)

	testCases := []struct {
		name    string
		token   string
		wantErr error
	}{
		{
			name:    "missing",
			token:   "",
			wantErr: common.ErrTokenMissing,
		},
		{
			name:    "garbage",
			token:   "not-a-token",
			wantErr: common.ErrTokenInvalid,
		},
		{
			name:    "tampered signature",
			token:   valid[:len(valid)-2] + "xx",
			wantErr: common.ErrTokenInvalid,
		},
		{
			name:    "other secret",
			token:   signed(t, jwt.SigningMethodHS256, []byte("other"), tokenClaims{ID: id.String(), Username: "root"}),
			wantErr: common.ErrTokenInvalid,
		},
		{
			name:    "other algorithm",
			token:   signed(t, jwt.SigningMethodHS512, []byte("secret"), tokenClaims{ID: id.String(), Username: "root"}),
			wantErr: common.ErrTokenInvalid,
		},
		{
			name:    "unsigned",
			token:   signed(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, tokenClaims{ID: id.String(), Username: "root"}),
			wantErr: common.ErrTokenInvalid,
		},
		{
			name:    "subject is not an id",
			token:   signed(t, jwt.SigningMethodHS256, []byte("secret"), tokenClaims{ID: "5a422a851b54a676234d17f9", Username: "root"}),
			wantErr: common.ErrTokenInvalid,
		},
		{
			name: "expired when an expiry is present",
			token: signed(t, jwt.SigningMethodHS256, []byte("secret"), tokenClaims{
				ID:               id.String(),
				RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))},
			}),
			wantErr: common.ErrTokenInvalid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := ti.Verify(tc.token)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Nil(t, claims)
		})
	}
}
