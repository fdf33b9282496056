package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/letterboxhq/letterbox-api/internal/adapters/config"
	"github.com/letterboxhq/letterbox-api/internal/adapters/metrics"
	"github.com/letterboxhq/letterbox-api/internal/domain"
	"github.com/letterboxhq/letterbox-api/pkg/cachekeys"
	"github.com/letterboxhq/letterbox-api/pkg/crypto"
)

const defaultResendCooldown = 60 * time.Second

// ResendOutcome is the result of a ResendConfirmation call. Known is false
// when the email has no account; callers must still answer with the generic
// success message so response shape never reveals account existence.
type ResendOutcome struct {
	Known      bool
	Blocked    bool
	RetryAfter time.Duration
	VerifyURL  string
	Cooldown   time.Duration
}

// AccountService orchestrates registration, sign-in, profile reads and the
// cooldown-gated confirmation-email resend flow.
type AccountService struct {
	users    domain.UserRepository
	tokens   *TokenService
	cooldown *CooldownLimiter
	emails   domain.EmailEventPublisher // optional; nil disables dispatch
	logger   domain.Logger
	config   config.Provider
}

// NewAccountService creates a new AccountService. emails may be nil when no
// mailer transport is configured.
func NewAccountService(
	users domain.UserRepository,
	tokens *TokenService,
	cooldown *CooldownLimiter,
	emails domain.EmailEventPublisher,
	logger domain.Logger,
	cfgProvider config.Provider,
) *AccountService {
	if users == nil {
		panic("user repository is nil in NewAccountService")
	}
	if tokens == nil {
		panic("token service is nil in NewAccountService")
	}
	if cooldown == nil {
		panic("cooldown limiter is nil in NewAccountService")
	}
	return &AccountService{
		users:    users,
		tokens:   tokens,
		cooldown: cooldown,
		emails:   emails,
		logger:   logger,
		config:   cfgProvider,
	}
}

// Register creates an account with a one-way hashed credential.
// A duplicate email surfaces as domain.ErrDuplicateEmail.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (domain.PublicUser, error) {
	hashed, err := crypto.HashPassword(password, s.config.Get().Auth.BcryptCost)
	if err != nil {
		return domain.PublicUser{}, fmt.Errorf("failed to hash credential: %w", err)
	}

	user := &domain.User{Name: name, Email: email, Password: hashed}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.PublicUser{}, err
	}

	s.logger.Info(ctx, "User registered", "user_id", user.ID)
	return user.Public(), nil
}

// SignIn verifies a credential and issues a session token. Unknown emails and
// wrong passwords produce the same domain.ErrInvalidCredentials so the error
// shape does not distinguish the two.
func (s *AccountService) SignIn(ctx context.Context, email, password string) (string, domain.PublicUser, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.PublicUser{}, domain.ErrInvalidCredentials
		}
		return "", domain.PublicUser{}, err
	}

	if err := crypto.ComparePassword(user.Password, password); err != nil {
		if errors.Is(err, crypto.ErrPasswordMismatch) {
			s.logger.Debug(ctx, "Sign-in rejected: credential mismatch", "user_id", user.ID)
			return "", domain.PublicUser{}, domain.ErrInvalidCredentials
		}
		return "", domain.PublicUser{}, err
	}

	token, err := s.tokens.Issue(user.ID, domain.PurposeSession, s.tokens.SessionTokenTTL())
	if err != nil {
		return "", domain.PublicUser{}, err
	}

	s.logger.Info(ctx, "Session token issued", "user_id", user.ID)
	return token, user.Public(), nil
}

// Profile returns the caller's own record.
func (s *AccountService) Profile(ctx context.Context, subjectID uint) (domain.PublicUser, error) {
	user, err := s.users.GetByID(ctx, subjectID)
	if err != nil {
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

// ResendConfirmation runs the non-enumerating, cooldown-gated resend flow.
//
// Unknown emails return before the limiter is ever consulted: no cooldown key
// is armed and no token is issued, so neither response shape nor rate-limit
// state reveals whether an account exists. Only existing accounts arm the
// window and get a verification link.
func (s *AccountService) ResendConfirmation(ctx context.Context, email string) (ResendOutcome, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug(ctx, "Resend requested for unknown email, answering generically")
			return ResendOutcome{Known: false}, nil
		}
		return ResendOutcome{}, err
	}

	window := s.resendCooldown()
	status, err := s.cooldown.CheckAndArm(ctx, cachekeys.ResendCooldownKey(email), window)
	if err != nil {
		return ResendOutcome{}, err
	}
	if !status.Ready {
		return ResendOutcome{Known: true, Blocked: true, RetryAfter: status.RetryAfter}, nil
	}

	token, err := s.tokens.Issue(user.ID, domain.PurposeEmailConfirm, s.tokens.ConfirmTokenTTL())
	if err != nil {
		return ResendOutcome{}, err
	}
	verifyURL := fmt.Sprintf("%s/verify-email?token=%s", s.baseURL(), token)

	if s.emails != nil {
		event := domain.ConfirmationEmailEvent{
			UserID:      user.ID,
			Email:       user.Email,
			VerifyURL:   verifyURL,
			RequestedAt: time.Now().UTC(),
		}
		if err := s.emails.PublishConfirmationRequested(ctx, event); err != nil {
			// Dispatch is best effort; the armed cooldown and issued link stand.
			s.logger.Error(ctx, "Failed to publish confirmation email event", "user_id", user.ID, "error", err.Error())
		} else {
			metrics.IncrementConfirmationEmailPublished()
		}
	}

	s.logger.Info(ctx, "Confirmation email resend accepted", "user_id", user.ID, "cooldown", window.String())
	return ResendOutcome{Known: true, VerifyURL: verifyURL, Cooldown: window}, nil
}

func (s *AccountService) resendCooldown() time.Duration {
	if secs := s.config.Get().App.ResendCooldownSeconds; secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultResendCooldown
}

func (s *AccountService) baseURL() string {
	if base := s.config.Get().App.BaseURL; base != "" {
		return base
	}
	return "http://localhost"
}
