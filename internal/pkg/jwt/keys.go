// internal/pkg/jwt/keys.go
package jwt

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds what the verifier needs to validate tokens.
type Config struct {
	PubPath  string
	Issuer   string
	Audience string
}

// LoadPublicKey reads and parses an RSA public key in PEM format.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key file: %w", err)
	}

	pub, err := jwt.ParseRSAPublicKeyFromPEM(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
	}

	return pub, nil
}

// LoadAndBuild loads the public key and builds a Verifier from config.
func LoadAndBuild(cfg Config) (*Verifier, error) {
	pub, err := LoadPublicKey(cfg.PubPath)
	if err != nil {
		return nil, err
	}
	return NewVerifier(pub, cfg.Issuer, cfg.Audience), nil
}
