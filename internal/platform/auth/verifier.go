package auth

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"

	"github.com/clinicore/clinicore/internal/platform/apperr"
)

// VerifierConfig selects the key material and the claim constraints for
// bearer verification. Exactly one key source is used, in order of
// precedence: SigningKey (HMAC, development only), PublicKeyFile (static RSA
// PEM read once at startup), JWKSURL (remote key set, cached).
type VerifierConfig struct {
	Issuer        string
	Audience      string
	JWKSURL       string
	PublicKeyFile string
	// SigningKey enables symmetric verification for development/testing only.
	SigningKey []byte
}

// Verifier validates bearer credentials and decodes them into Claims. It is
// pure: no side effects beyond reading key material at construction time.
type Verifier struct {
	cfg       VerifierConfig
	publicKey *rsa.PublicKey
	jwks      *JWKSCache
}

// NewVerifier builds a Verifier, reading the static public key file (when
// configured) exactly once so no per-request key I/O happens later.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	v := &Verifier{cfg: cfg}

	if len(cfg.SigningKey) == 0 && cfg.PublicKeyFile != "" {
		pem, err := os.ReadFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read public key file: %w", err)
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM(pem)
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}
		v.publicKey = key
	}

	if len(cfg.SigningKey) == 0 && v.publicKey == nil {
		if cfg.JWKSURL == "" {
			return nil, fmt.Errorf("verifier needs a signing key, a public key file, or a JWKS URL")
		}
		v.jwks = NewJWKSCache(cfg.JWKSURL, defaultJWKSCacheTTL)
	}

	return v, nil
}

// Verify checks the token's signature, issuer, audience and validity window
// and returns the decoded claims. All failures map to an authentication
// error.
func (v *Verifier) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256", "HS256"}),
		jwt.WithExpirationRequired(),
	}
	if v.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.cfg.Issuer))
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	var keyFunc jwt.Keyfunc
	switch {
	case len(v.cfg.SigningKey) > 0:
		keyFunc = func(t *jwt.Token) (interface{}, error) { return v.cfg.SigningKey, nil }
	case v.publicKey != nil:
		keyFunc = func(t *jwt.Token) (interface{}, error) { return v.publicKey, nil }
	default:
		keyFunc = jwksKeyFunc(v.jwks)
	}

	token, err := jwt.ParseWithClaims(tokenStr, claims, keyFunc, opts...)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.KindAuthentication, "invalid token")
	}
	if !token.Valid {
		return nil, apperr.Authentication("invalid token")
	}

	return claims, nil
}
