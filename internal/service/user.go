package service

import (
	"Neighborly/internal/auth"
	"Neighborly/internal/model"
	"Neighborly/internal/repo"
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService is the authentication gate: registration, login and token
// verification.
type UserService struct {
	repo   repo.UserRepository
	tokens *auth.Tokens
}

func NewUserService(r repo.UserRepository, tokens *auth.Tokens) *UserService {
	return &UserService{repo: r, tokens: tokens}
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token string
	User  *model.User
}

// Register creates a user with a bcrypt-hashed password.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, invalidInput("Name, email and password are required")
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.repo.CreateUser(ctx, &model.User{Name: name, Email: email, Password: string(hash)})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost a race with a concurrent registration
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login checks the credentials and issues a token carrying {userId, name}.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && user == nil) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Name: user.Name})
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

// Verify validates a bearer token without touching the store.
func (s *UserService) Verify(token string) (auth.Identity, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return auth.Identity{}, newError(KindUnauthorized, "Token is not valid.")
	}
	return id, nil
}
