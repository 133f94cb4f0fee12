// Package auth holds the user registry: password hashing and JWT session
// tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskcanvas/taskcanvas/db"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
)

type Service struct {
	store       db.Store
	secret      []byte
	tokenExpiry time.Duration
}

func NewService(store db.Store, secret string, tokenExpiry time.Duration) *Service {
	if tokenExpiry <= 0 {
		tokenExpiry = 24 * time.Hour
	}
	return &Service{store: store, secret: []byte(secret), tokenExpiry: tokenExpiry}
}

type claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Register creates a user with a bcrypt password hash. A taken email
// surfaces as db.ErrConflict.
func (s *Service) Register(ctx context.Context, email, name, password string) (db.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return db.User{}, &db.ValidationError{Message: "email and password are required"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return db.User{}, err
	}

	return s.store.CreateUser(db.User{
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
	})
}

// Login verifies the credentials and issues a signed session token.
func (s *Service) Login(ctx context.Context, email, password string) (token string, user db.User, err error) {
	user, err = s.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			err = ErrInvalidCredentials
		}
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		err = ErrInvalidCredentials
		return
	}

	token, err = s.issueToken(user.ID)
	return
}

func (s *Service) issueToken(userID string) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExpiry)),
			Issuer:    "taskcanvas",
		},
	})
	return t.SignedString(s.secret)
}

// VerifyToken resolves a session token to its user.
func (s *Service) VerifyToken(ctx context.Context, tokenString string) (db.User, error) {
	parsed := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, parsed, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return db.User{}, ErrInvalidToken
	}

	user, err := s.store.GetUser(parsed.UserID)
	if err != nil {
		return db.User{}, ErrInvalidToken
	}
	return user, nil
}
