package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// signingMethod is the only accepted algorithm. Tokens signed with anything
// else are rejected to defend against algorithm confusion.
var signingMethod = jwt.SigningMethodRS256

// TokenService handles signed token creation and validation.
// Tokens are RS256 JWTs signed with the private key and verified against
// the public key, so any holder of the public key can verify authenticity.
type TokenService struct {
	keys     *KeyPair
	duration time.Duration
}

func NewTokenService(keys *KeyPair, duration time.Duration) *TokenService {
	return &TokenService{
		keys:     keys,
		duration: duration,
	}
}

// CreateToken generates a signed token with the user ID as subject.
// Fails if userID is the zero UUID.
func (s *TokenService) CreateToken(userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", fmt.Errorf("user ID is required to create a token")
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
	}

	token := jwt.NewWithClaims(signingMethod, claims)

	signed, err := token.SignedString(s.keys.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken validates a token's signature and expiry and returns the
// embedded subject. Bad signature, wrong algorithm and expiry all surface
// as errors callers must treat uniformly as authentication failure.
func (s *TokenService) VerifyToken(tokenStr string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(tokenStr, &claims, func(token *jwt.Token) (any, error) {
		return s.keys.PublicKey, nil
	},
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrExpiredToken
		}
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}
