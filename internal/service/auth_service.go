package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"riskscreen/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService handles operator authentication
type AuthService struct {
	operatorUsername string
	operatorPassword string
	jwtSecret        []byte
}

// NewAuthService creates a new auth service
func NewAuthService(username, password, jwtSecret string) *AuthService {
	return &AuthService{
		operatorUsername: username,
		operatorPassword: password,
		jwtSecret:        []byte(jwtSecret),
	}
}

// Login validates credentials and returns an operator token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.operatorUsername || password != s.operatorPassword {
		return nil, ErrInvalidCredentials
	}

	operatorID := "op_" + uuid.New().String()[:8]

	claims := &model.OperatorClaims{
		OperatorID: operatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:      tokenString,
		OperatorID: operatorID,
	}, nil
}

// ValidateOperatorToken validates an operator JWT and returns claims
func (s *AuthService) ValidateOperatorToken(tokenString string) (*model.OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.OperatorClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.OperatorClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
