// Package services contains the server-side business logic. This file
// implements CredentialService, which handles registration, login, and
// validation of the JWTs issued at login.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/akozlov/custhub/internal/common"
	"github.com/akozlov/custhub/internal/iam/auth"
	"github.com/akozlov/custhub/internal/iam/config"
	"github.com/akozlov/custhub/internal/iam/models"
	"github.com/akozlov/custhub/internal/iam/repositories/users"
)

// Hasher turns plaintext passwords into stored verifiers and checks
// candidates against them.
type Hasher interface {
	Hash(plaintext string) ([]byte, error)
	Verify(plaintext string, verifier []byte) bool
}

// CredentialService provides the account operations:
//   - Register: create accounts
//   - Login: verify credentials and mint a token
//   - ValidateToken: check a presented token and return its claims
//   - Logout: acknowledge only; tokens stay valid until natural expiry
type CredentialService struct {
	repo          users.Repository
	hasher        Hasher
	jwtSecret     []byte
	tokenValidity time.Duration

	// dummyVerifier is compared against when the username does not exist, so
	// a login attempt costs one bcrypt comparison either way and response
	// timing does not reveal whether the account is real.
	dummyVerifier []byte
}

// NewCredentialService constructs a CredentialService from the repository,
// hasher, and server config.
func NewCredentialService(repo users.Repository, hasher Hasher, cfg *config.Config) (*CredentialService, error) {
	dummy, err := hasher.Hash("dummy-password-for-timing-only")
	if err != nil {
		return nil, err
	}

	return &CredentialService{
		repo:          repo,
		hasher:        hasher,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		dummyVerifier: dummy,
	}, nil
}

// Register creates a new account. The plaintext password never reaches the
// store; only its verifier does. A duplicate username is reported as
// ErrorUsernameTaken whether it was caught before or during the insert.
func (s *CredentialService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, common.ErrorInvalidInput
	}

	verifier, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user, err := s.repo.Create(ctx, &models.User{Username: username, Verifier: verifier})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorUsernameTaken
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// Login verifies the credentials and returns a signed bearer token. A missing
// account and a wrong password are indistinguishable to the caller: both run
// a full verifier comparison and both return ErrorInvalidCredentials.
func (s *CredentialService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyVerifier)
			return "", common.ErrorInvalidCredentials
		}
		return "", common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.Verifier) {
		return "", common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		return "", common.ErrorInternal
	}

	return token, nil
}

// ValidateToken checks the presented token and returns its claims. All codec
// failures surface as ErrorInvalidToken; an absent token as ErrorMissingToken.
func (s *CredentialService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if token == "" {
		return nil, common.ErrorMissingToken
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, common.ErrorInvalidToken
	}

	return claims, nil
}

// Logout acknowledges the request. There is no revocation list: an issued
// token remains valid until it expires.
func (s *CredentialService) Logout(ctx context.Context) {}
