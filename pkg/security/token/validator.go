package token

import (
	"encoding/hex"

	"aidanwoods.dev/go-paseto"
)

// TokenValidator validates tokens and returns claims.
type TokenValidator interface {
	ValidateToken(token string) (*Claims, error)
}

// tokenValidator validates PASETO v4 public tokens using a public key.
type tokenValidator struct {
	publicKey paseto.V4AsymmetricPublicKey
}

// newTokenValidator creates a validator from a hex-encoded 32-byte Ed25519 public key.
func newTokenValidator(config Config) (TokenValidator, error) {
	keyBytes, err := hex.DecodeString(config.PublicKey)
	if err != nil || len(keyBytes) != 32 {
		return nil, ErrInvalidPublicKey
	}

	publicKey, err := paseto.NewV4AsymmetricPublicKeyFromBytes(keyBytes)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}

	return &tokenValidator{publicKey: publicKey}, nil
}

// ValidateToken verifies the signature and the time claims of tokenString.
func (v *tokenValidator) ValidateToken(tokenString string) (*Claims, error) {
	parser := paseto.NewParser()

	token, err := parser.ParseV4Public(v.publicKey, tokenString, nil)
	if err != nil {
		return nil, ErrInvalidToken
	}

	subject, err := token.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}

	role, _ := token.GetString("role")
	tokenType, _ := token.GetString("type")
	exp, _ := token.GetExpiration()

	return &Claims{
		UserID:    subject,
		Role:      role,
		Type:      tokenType,
		ExpiresAt: exp,
	}, nil
}
