package userservice

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sushihentaime/bloglist/internal/common"
)

var ErrEmptySecret = errors.New("token secret must be provided")

type tokenClaims struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens. Tokens carry no expiry.
type TokenIssuer struct {
	secret []byte
}

func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &TokenIssuer{secret: []byte(secret)}, nil
}

func (ti *TokenIssuer) Issue(subjectID uuid.UUID, username string) (string, error) {
	claims := tokenClaims{
		ID:       subjectID.String(),
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("could not sign token: %w", err)
	}

	return token, nil
}

func (ti *TokenIssuer) Verify(token string) (*Claims, error) {
	if token == "" {
		return nil, common.ErrTokenMissing
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return ti.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrTokenInvalid, err)
	}

	id, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject: %w", common.ErrTokenInvalid, err)
	}

	return &Claims{SubjectID: id, Username: claims.Username}, nil
}
