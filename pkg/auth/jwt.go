package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrExpiredToken is returned when the token is past its expiry
	ErrExpiredToken = errors.New("token has expired")
	// ErrInvalidSignature is returned when the token signature does not verify
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrInvalidToken is returned for any other validation failure
	ErrInvalidToken = errors.New("invalid token")
)

// JWTConfig holds JWT validation configuration
type JWTConfig struct {
	SecretKey string
	Issuer    string
	Audience  []string
}

// Claims represents the validated identity carried by a token
type Claims struct {
	UserID string
	Email  string
	Roles  []string
}

type jwtClaims struct {
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// JWTValidator validates HS256 bearer tokens
type JWTValidator struct {
	config JWTConfig
}

// NewJWTValidator creates a new JWT validator
func NewJWTValidator(config JWTConfig) (*JWTValidator, error) {
	if config.SecretKey == "" {
		return nil, fmt.Errorf("jwt secret key is required")
	}
	return &JWTValidator{config: config}, nil
}

// ValidateToken parses and validates a token string, returning its claims
func (v *JWTValidator) ValidateToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
	}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}
	if len(v.config.Audience) > 0 {
		opts = append(opts, jwt.WithAudience(v.config.Audience[0]))
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(v.config.SecretKey), nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	roles := claims.Roles
	if len(roles) == 0 {
		roles = []string{"authenticated"}
	}

	return &Claims{
		UserID: claims.Subject,
		Email:  claims.Email,
		Roles:  roles,
	}, nil
}
