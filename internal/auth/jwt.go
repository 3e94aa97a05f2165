// Package auth resolves the caller identity from HS256 bearer tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Shivanand-hulikatti/conference-booking/internal/model"
)

// Claims represents the JWT claims structure
type Claims struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname,omitempty"`
	jwt.RegisteredClaims
}

// Verifier issues and validates bearer tokens with a shared secret.
type Verifier struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewVerifier constructs a Verifier. An empty issuer disables the issuer check.
func NewVerifier(secret, issuer string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Issue creates a signed token for id valid for ttl.
func (v *Verifier) Issue(id model.Identity, ttl time.Duration) (string, error) {
	if id.UserID == "" && id.Email == "" {
		return "", errors.New("identity needs a user id or an email")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}

	now := v.now()
	claims := &Claims{
		Email:    id.Email,
		Nickname: id.Nickname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString and returns the identity it carries. Every
// failure wraps model.ErrUnauthenticated.
func (v *Verifier) Verify(tokenString string) (model.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return model.Identity{}, fmt.Errorf("%w: %v", model.ErrUnauthenticated, err)
	}

	id := model.Identity{
		UserID:   claims.Subject,
		Email:    claims.Email,
		Nickname: claims.Nickname,
	}
	// Tokens without a subject identify the user by email.
	if id.UserID == "" {
		id.UserID = id.Email
	}
	if id.UserID == "" {
		return model.Identity{}, fmt.Errorf("%w: token carries no subject", model.ErrUnauthenticated)
	}
	if id.Nickname == "" {
		id.Nickname = id.Email
	}
	return id, nil
}
