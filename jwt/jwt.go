package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"os"
)

const AdminRole = "admin"

// Signer issues RS256 tokens.
type Signer struct {
	key *rsa.PrivateKey
}

func NewSigner(key *rsa.PrivateKey) *Signer {
	return &Signer{key: key}
}

// LoadSigner reads a PEM encoded RSA private key.
func LoadSigner(path string) (*Signer, error) {
	keyBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing private key %s: %w", path, err)
	}

	return NewSigner(key), nil
}

// GenerateToken signs a token for subject with the given role, expiring at expTime (unix seconds).
func (s *Signer) GenerateToken(subject string, role string, expTime int64) (string, error) {
	token := jwt.New(jwt.SigningMethodRS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["sub"] = subject
	claims["exp"] = expTime
	claims["role"] = role

	return token.SignedString(s.key)
}

// Verifier checks RS256 tokens.
type Verifier struct {
	key *rsa.PublicKey
}

func NewVerifier(key *rsa.PublicKey) *Verifier {
	return &Verifier{key: key}
}

// LoadVerifier reads a PEM encoded RSA public key.
func LoadVerifier(path string) (*Verifier, error) {
	keyBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing public key %s: %w", path, err)
	}

	return NewVerifier(key), nil
}

// VerifyToken validates the signature and expiry and returns the subject and role claims.
func (v *Verifier) VerifyToken(tokenString string) (string, string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return v.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", "", err
	}

	if !token.Valid {
		return "", "", jwt.ErrTokenSignatureInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errors.New("unexpected claims type")
	}
	subject, _ := claims.GetSubject()
	role, _ := claims["role"].(string)

	return subject, role, nil
}
