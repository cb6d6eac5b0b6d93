package auth

import "github.com/golang-jwt/jwt/v5"

// Authenticator issues and checks the token pair carried by admin operators.
type Authenticator interface {
	GenerateTokens(operatorID int64, role string) (string, string, error)
	ValidateAccessToken(token string) (*jwt.Token, error)
	ValidateRefreshToken(token string) (*jwt.Token, error)
}
