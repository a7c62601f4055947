package userservice

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/sushihentaime/inkwell/internal/common"
)

type tokenScope string

const (
	ScopeAuthentication tokenScope = "authentication"

	DefaultAuthTokenTTL time.Duration = 24 * time.Hour
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m        *UserModel
	t        *TokenModel
	mb       common.MessageProducer
	logger   *slog.Logger
	tokenTTL time.Duration
}

type UserModel struct {
	db *sql.DB
}

type TokenModel struct {
	db *sql.DB
}

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int       `json:"-"`
}

type Password struct {
	Plain *string
	hash  []byte
}

type Token struct {
	Plain  string     `json:"token"`
	Hash   []byte     `json:"-"`
	UserID int        `json:"-"`
	Expiry time.Time  `json:"expiry"`
	Scope  tokenScope `json:"-"`
}
