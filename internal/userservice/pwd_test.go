package userservice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewPassword(t *testing.T) {
	testCases := []struct {
		name    string
		plain   string
		wantErr error
	}{
		{name: "empty", plain: "", wantErr: ErrPasswordPolicy},
		{name: "too short", plain: "ab", wantErr: ErrPasswordPolicy},
		{name: "two characters in three bytes", plain: "éa", wantErr: ErrPasswordPolicy},
		{name: "minimum length", plain: "abc", wantErr: nil},
		{name: "minimum length multibyte", plain: "éab", wantErr: nil},
		{name: "valid", plain: "abc123", wantErr: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewPassword(tc.plain)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Empty(t, p.hash)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, []byte(tc.plain), p.hash)

			cost, err := bcrypt.Cost(p.hash)
			require.NoError(t, err)
			assert.Equal(t, passwordCost, cost)
		})
	}
}

func TestPassword_Verify(t *testing.T) {
	p, err := NewPassword("abc123")
	require.NoError(t, err)

	assert.True(t, p.Verify("abc123"))
	assert.False(t, p.Verify("wrong"))
	assert.False(t, p.Verify(""))
}

func TestPassword_VerifyZeroValue(t *testing.T) {
	var p Password
	assert.False(t, p.Verify("abc123"))
}

func TestNewPassword_Salted(t *testing.T) {
	a, err := NewPassword("abc123")
	require.NoError(t, err)
	b, err := NewPassword("abc123")
	require.NoError(t, err)

	assert.NotEqual(t, a.hash, b.hash)
}
