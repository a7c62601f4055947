package userservice

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	ErrAuthenticationFailure = errors.New("invalid email or password")
	ErrInvalidToken          = errors.New("invalid or expired authentication token")
)

func NewUserService(db *sql.DB, mb common.MessageProducer, logger *slog.Logger, tokenTTL time.Duration) *UserService {
	if tokenTTL <= 0 {
		tokenTTL = DefaultAuthTokenTTL
	}

	return &UserService{
		m:        NewUserModel(db),
		t:        NewTokenModel(db),
		mb:       mb,
		logger:   logger,
		tokenTTL: tokenTTL,
	}
}

// RegisterUser creates a new account and publishes a user.created event. A failed publish is logged and
// does not undo the registration.
func (s *UserService) RegisterUser(ctx context.Context, name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	v := common.NewValidator()
	validateName(v, name)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Name:  name,
		Email: email,
	}

	if err := u.Password.set(password); err != nil {
		return nil, err
	}

	if err := s.m.insert(ctx, &u); err != nil {
		return nil, err
	}

	msg := common.UserCreatedMessage{UserID: u.ID, Name: u.Name, Email: u.Email}
	if err := common.PublishJSON(ctx, s.mb, msg, common.UserCreatedKey, common.UserExchange); err != nil {
		s.logger.Error("could not publish user.created event", slog.Int("user_id", u.ID), slog.String("error", err.Error()))
	}

	return &u, nil
}

// LoginUser checks the credentials and issues a new authentication token.
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*Token, error) {
	email = strings.TrimSpace(email)

	v := common.NewValidator()
	validateEmail(v, email)
	validatePasswordPlaintext(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	user, err := s.m.getByEmail(ctx, email)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, ErrAuthenticationFailure
		default:
			return nil, err
		}
	}

	ok, err := user.Password.matches(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrAuthenticationFailure
	}

	if _, err := s.t.deleteExpired(ctx); err != nil {
		return nil, err
	}

	return s.t.createToken(ctx, user.ID, s.tokenTTL, ScopeAuthentication)
}

// GetUserByToken resolves a bearer token to its user.
func (s *UserService) GetUserByToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, ErrInvalidToken
	}

	user, err := s.t.getUser(ctx, ScopeAuthentication, hashToken(token))
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, ErrInvalidToken
		default:
			return nil, err
		}
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int) (*User, error) {
	return s.m.getByID(ctx, id)
}

// LogoutUser revokes every authentication token of the user.
func (s *UserService) LogoutUser(ctx context.Context, userID int) error {
	return s.t.deleteAllForUser(ctx, userID, ScopeAuthentication)
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}
