package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog"

	"github.com/noah-isme/skills-enroll/internal/common"
	"github.com/noah-isme/skills-enroll/internal/obs"
	"github.com/noah-isme/skills-enroll/internal/tasks"
	"github.com/noah-isme/skills-enroll/internal/user"
)

const (
	defaultAccessTTL = time.Hour
	defaultIssuer    = "skills-enroll"
)

// Config configures the auth service.
type Config struct {
	Users          user.Store
	Secret         string
	AccessTokenTTL time.Duration
	Issuer         string
	Audience       string
	ClockSkew      time.Duration
	// HashParams overrides argon2id.DefaultParams.
	HashParams *argon2id.Params
	Notifier   tasks.Notifier
	Logger     zerolog.Logger
}

// Service implements the mock sign-up and login flow. Accounts grant no
// permissions; a token only identifies who is signed in.
type Service struct {
	users    user.Store
	tokens   *Tokens
	params   *argon2id.Params
	notifier tasks.Notifier
	logger   zerolog.Logger
	now      func() time.Time
}

// LoginResult bundles the token returned after a successful login.
type LoginResult struct {
	User         user.User `json:"user"`
	AccessToken  string    `json:"accessToken"`
	AccessExpiry time.Time `json:"accessTokenExpiresAt"`
	Message      string    `json:"message"`
	RememberMe   bool      `json:"-"`
}

// NewService constructs a Service instance with sane defaults.
func NewService(cfg Config) (*Service, error) {
	if cfg.Users == nil {
		return nil, errors.New("auth: user store is required")
	}
	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = defaultAccessTTL
	}
	issuer := strings.TrimSpace(cfg.Issuer)
	if issuer == "" {
		issuer = defaultIssuer
	}
	clockSkew := cfg.ClockSkew
	if clockSkew < 0 {
		clockSkew = 0
	}
	tokens, err := NewTokens(cfg.Secret, issuer, strings.TrimSpace(cfg.Audience), ttl, clockSkew)
	if err != nil {
		return nil, err
	}
	params := cfg.HashParams
	if params == nil {
		params = argon2id.DefaultParams
	}
	return &Service{
		users:    cfg.Users,
		tokens:   tokens,
		params:   params,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		now:      time.Now,
	}, nil
}

// WithNow allows tests to override the time provider.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Signup validates the form and creates an account. Field problems, including an
// e-mail that is already registered, come back as one ValidationErrors value.
func (s *Service) Signup(ctx context.Context, form SignupForm) (user.User, error) {
	form = form.normalize()
	errs := ValidateSignup(form)
	if !errs.Has(SignupEmail) {
		_, err := s.users.FindByEmail(ctx, form.Email)
		switch {
		case err == nil:
			errs.Add(SignupEmail, MsgEmailTaken)
		case !errors.Is(err, user.ErrNotFound):
			obs.ObserveAuthAttempt("signup", obs.ResultError)
			return user.User{}, fmt.Errorf("lookup user: %w", err)
		}
	}
	if !errs.Empty() {
		obs.ObserveAuthAttempt("signup", obs.ResultInvalid)
		return user.User{}, errs
	}

	hash, err := argon2id.CreateHash(form.Password, s.params)
	if err != nil {
		obs.ObserveAuthAttempt("signup", obs.ResultError)
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}
	created, err := s.users.Add(ctx, user.NewUser{
		FullName:     form.FullName,
		Email:        form.Email,
		Phone:        form.Phone,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			errs.Add(SignupEmail, MsgEmailTaken)
			obs.ObserveAuthAttempt("signup", obs.ResultInvalid)
			return user.User{}, errs
		}
		obs.ObserveAuthAttempt("signup", obs.ResultError)
		return user.User{}, fmt.Errorf("add user: %w", err)
	}
	obs.ObserveAuthAttempt("signup", obs.ResultOK)

	if s.notifier != nil {
		welcome := tasks.WelcomePayload{UserID: created.ID, FullName: created.FullName, Email: created.Email}
		if err := s.notifier.Welcome(ctx, welcome); err != nil {
			s.logger.Warn().Err(err).Str("user_id", created.ID).Msg("welcome email not dispatched")
		}
	}
	return created, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, form LoginForm) (LoginResult, error) {
	form = form.normalize()
	errs := ValidateLogin(form)
	if !errs.Empty() {
		obs.ObserveAuthAttempt("login", obs.ResultInvalid)
		return LoginResult{}, errs
	}

	u, err := s.users.FindByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			errs.SetForm(MsgNoAccount)
			obs.ObserveAuthAttempt("login", obs.ResultInvalid)
			return LoginResult{}, errs
		}
		obs.ObserveAuthAttempt("login", obs.ResultError)
		return LoginResult{}, fmt.Errorf("lookup user: %w", err)
	}
	ok, err := argon2id.ComparePasswordAndHash(form.Password, u.PasswordHash)
	if err != nil || !ok {
		errs.SetForm(MsgIncorrectPassword)
		obs.ObserveAuthAttempt("login", obs.ResultInvalid)
		return LoginResult{}, errs
	}

	token, expiresAt, err := s.tokens.Issue(common.Principal{UserID: u.ID, Email: u.Email}, s.now())
	if err != nil {
		obs.ObserveAuthAttempt("login", obs.ResultError)
		return LoginResult{}, fmt.Errorf("sign access token: %w", err)
	}
	obs.ObserveAuthAttempt("login", obs.ResultOK)
	return LoginResult{
		User:         u,
		AccessToken:  token,
		AccessExpiry: expiresAt,
		Message:      fmt.Sprintf("Login Successful! Welcome back, %s!", u.FullName),
		RememberMe:   form.RememberMe,
	}, nil
}

// Me fetches the signed-in account.
func (s *Service) Me(ctx context.Context, userID string) (user.User, error) {
	if strings.TrimSpace(userID) == "" {
		return user.User{}, unauthorized("unauthorized", nil)
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, unauthorized("unauthorized", err)
		}
		return user.User{}, common.NewAppError(common.CodeInternal, "internal error", http.StatusInternalServerError, err)
	}
	return u, nil
}

// ParseAccessToken validates an access token and returns its principal.
func (s *Service) ParseAccessToken(token string) (common.Principal, error) {
	return s.tokens.Parse(token, s.now())
}
