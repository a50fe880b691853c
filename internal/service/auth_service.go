package service

import (
	"fmt"
	"net/http"

	"go-movie-api/internal/auth"
	"go-movie-api/internal/model"
)

// AuthService exchanges login credentials for a bearer token.
type AuthService struct {
	strategy auth.Strategy
	issuer   *auth.Issuer
}

func NewAuthService(strategy auth.Strategy, issuer *auth.Issuer) *AuthService {
	return &AuthService{strategy: strategy, issuer: issuer}
}

// Login authenticates r with the configured strategy and issues a token for the result.
func (s *AuthService) Login(r *http.Request) (model.User, model.Token, error) {
	user, err := s.strategy.Authenticate(r)
	if err != nil {
		return model.User{}, model.Token{}, err
	}

	token, err := s.issuer.Issue(user, nil)
	if err != nil {
		return model.User{}, model.Token{}, fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}
