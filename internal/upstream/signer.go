package upstream

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Signer mints a short-lived HS256 service token per request, for
// deployments that share a signing secret instead of a static token.
type Signer struct {
	Secret  []byte
	Issuer  string
	Subject string
	TTL     time.Duration
	Now     func() time.Time
}

func (s Signer) Token() (string, error) {
	if len(s.Secret) == 0 {
		return "", errors.New("empty signing secret")
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	issued := now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.Issuer,
		Subject:   s.Subject,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(issued.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
}

// TokensFor picks a static token when given, else a signer, else none.
func TokensFor(staticToken, secret string) TokenSource {
	switch {
	case staticToken != "":
		return StaticToken(staticToken)
	case secret != "":
		return Signer{Secret: []byte(secret), Issuer: "dealerhub", Subject: "reporting"}
	default:
		return nil
	}
}
