package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type tokenServiceImpl struct {
	issuer     string
	signingKey []byte
	tokenTTL   time.Duration
}

// NewTokenService builds a token service signing with the given
// HS256 key. The key is fixed for the lifetime of the process and
// never rotated.
func NewTokenService(
	issuer string,
	signingKey []byte,
	tokenTTL time.Duration,
) TokenService {
	return &tokenServiceImpl{
		issuer:     issuer,
		signingKey: signingKey,
		tokenTTL:   tokenTTL,
	}
}

func (s *tokenServiceImpl) Issue(subject string, extraClaims map[string]any) (string, time.Time, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token id: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	claims := jwt.MapClaims{
		"jti": tokenUUID.String(),
		"iss": s.issuer,
		"sub": subject,
		"iat": jwt.NewNumericDate(now),
		"exp": jwt.NewNumericDate(expiresAt),
	}
	for name, value := range extraClaims {
		claims[name] = value
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *tokenServiceImpl) Validate(token, expectedSubject string) (bool, error) {
	claims, err := s.parseClaims(token)
	if err != nil {
		if errors.Is(err, ErrMalformedToken) {
			return false, err
		}
		// Bad signature and expiry are both plain "invalid".
		return false, nil
	}

	subject, err := claims.GetSubject()
	if err != nil || subject != expectedSubject {
		return false, nil
	}
	return true, nil
}

func (s *tokenServiceImpl) ExtractSubject(token string) (string, error) {
	claims, err := s.parseClaims(token)
	if err != nil {
		return "", err
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("failed to extract subject: %w", err)
	}
	return subject, nil
}

// parseClaims verifies the signature before any claim becomes
// visible to callers; expiry is checked against the wall clock at
// parse time, not at issuance.
func (s *tokenServiceImpl) parseClaims(token string) (jwt.MapClaims, error) {
	t, err := jwt.Parse(
		token,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
		}
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrMalformedToken)
	}
	return claims, nil
}
