package usecase

import (
	"context"
	"errors"
	"log"

	"helperhub/internal/domain/user"
	"helperhub/internal/pkg/jwt"
	ucauth "helperhub/internal/usecase/auth"
)

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

type Tokens struct {
	AccessToken  string
	RefreshToken string
}

type AuthResult struct {
	User   user.User
	Role   user.Role
	Tokens Tokens
}

type AuthUsecase interface {
	Signup(ctx context.Context, in ucauth.SignupInput) (AuthResult, error)
	Login(ctx context.Context, in ucauth.LoginInput) (AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (Tokens, error)
}

type Auth struct {
	authSvc  *ucauth.Service
	users    user.Repository
	sessions *SessionResolver
	jwt      jwt.Service
	logger   *log.Logger
}

func NewAuthUsecase(users user.Repository, sessions *SessionResolver, jwtSvc jwt.Service, logger *log.Logger) *Auth {
	return &Auth{authSvc: ucauth.NewService(users), users: users, sessions: sessions, jwt: jwtSvc, logger: logger}
}

func (u *Auth) Signup(ctx context.Context, in ucauth.SignupInput) (AuthResult, error) {
	usr, role, err := u.authSvc.Signup(ctx, in)
	if err != nil {
		return AuthResult{}, err
	}
	tokens, err := u.issue(usr)
	if err != nil {
		return AuthResult{}, err
	}
	u.logf("[Auth] session started method=signup user_id=%s role=%s", usr.ID, role)
	return AuthResult{User: usr, Role: role, Tokens: tokens}, nil
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (AuthResult, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return AuthResult{}, err
	}
	tokens, err := u.issue(usr)
	if err != nil {
		return AuthResult{}, err
	}

	role := user.RoleEmployer
	if u.sessions != nil {
		s, err := u.sessions.Resolve(ctx, identityOf(usr))
		if err != nil {
			u.logf("[Auth] role lookup user_id=%s err=%v", usr.ID, err)
		}
		role = s.Role
	}

	u.logf("[Auth] session started method=login user_id=%s role=%s", usr.ID, role)
	return AuthResult{User: usr, Role: role, Tokens: tokens}, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (Tokens, error) {
	if refreshToken == "" {
		return Tokens{}, ErrUnauthorized
	}

	claims, err := u.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Tokens{}, ErrRefreshTokenExpired
		}
		return Tokens{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return Tokens{}, ErrInvalidRefreshToken
		}
		return Tokens{}, unavailable("load account", err)
	}

	return u.issue(usr)
}

func (u *Auth) issue(usr user.User) (Tokens, error) {
	access, err := u.jwt.GenerateAccessToken(identityOf(usr))
	if err != nil {
		return Tokens{}, ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		return Tokens{}, ErrInternal
	}
	return Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (u *Auth) logf(format string, args ...any) {
	if u.logger != nil {
		u.logger.Printf(format, args...)
	}
}

func identityOf(usr user.User) user.Identity {
	return user.Identity{ID: usr.ID, Email: usr.Email, DisplayName: usr.DisplayName, Phone: usr.Phone}
}
