package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mercadito/ecommerce-api/internal/api/metrics"
	"github.com/mercadito/ecommerce-api/internal/core/domain"
	"github.com/mercadito/ecommerce-api/internal/core/ports"
)

// Code purposes, used for email wording, rate-limit keys and metrics labels.
const (
	purposeActivation = "activation"
	purposeLogin      = "login"
	purposeReset      = "reset"
)

// EmailSender abstracts the outbound email transport.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// CodeLimiter throttles one-time-code issuance per (purpose, email).
// Implementations should fail open: an unreachable limiter must not block
// legitimate logins.
type CodeLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// AuthService implements registration, activation, two-step login and
// password reset on top of emailed one-time codes.
type AuthService struct {
	repo      ports.UserRepository
	sender    EmailSender
	limiter   CodeLimiter
	jwtSecret string
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, sender EmailSender, limiter CodeLimiter, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		sender:    sender,
		limiter:   limiter,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, error) {
	if username == "" || email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := &domain.User{
		Username:         username,
		Email:            email,
		PasswordHash:     string(hash),
		TwoFactorEnabled: false,
		CreatedAt:        time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", err
	}

	if err := s.issueVerificationCode(ctx, created.Email, purposeActivation); err != nil {
		return "", err
	}

	s.log.Info().Str("uid", created.ID).Msg("user registered, activation code sent")
	return created.ID, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Unknown email and bad password are indistinguishable to the caller.
		return "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}
	if !user.TwoFactorEnabled {
		return "", domain.ErrAccountInactive
	}

	// Credentials alone never yield a token: a fresh 2FA code is required.
	if err := s.issueVerificationCode(ctx, user.Email, purposeLogin); err != nil {
		return "", err
	}
	return user.ID, nil
}

func (s *AuthService) VerifyAccount(ctx context.Context, email, code string) (*ports.VerifyAccountResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Uniform rejection: no oracle distinguishing unknown email from bad code.
		return nil, domain.ErrCodeInvalid
	}
	if user.TwoFactorEnabled {
		return &ports.VerifyAccountResult{AlreadyActive: true}, nil
	}

	activated, err := s.repo.ActivateAccount(ctx, email, code, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	token, err := s.generateToken(activated)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("uid", activated.ID).Msg("account activated")
	return &ports.VerifyAccountResult{Token: token}, nil
}

func (s *AuthService) VerifyTwoFactor(ctx context.Context, email, code string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", domain.ErrCodeInvalid
	}
	if !user.TwoFactorEnabled {
		return "", domain.ErrAccountInactive
	}

	verified, err := s.repo.ConsumeVerificationCode(ctx, email, code, time.Now().UTC())
	if err != nil {
		return "", err
	}
	return s.generateToken(verified)
}

func (s *AuthService) RequestTwoFactor(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !user.TwoFactorEnabled {
		return domain.ErrAccountInactive
	}
	return s.issueVerificationCode(ctx, user.Email, purposeLogin)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	if s.limiter != nil && !s.limiter.Allow(ctx, purposeReset+":"+user.Email) {
		return domain.ErrCodeRequestLimit
	}

	code := newVerificationCode()
	if err := s.repo.SetResetCode(ctx, user.Email, code, time.Now().UTC().Add(codeTTL)); err != nil {
		return err
	}

	body := fmt.Sprintf(
		"<p>You requested a password reset.</p><p>Your reset code is: <b>%s</b></p><p>It is valid for 10 minutes.</p>",
		code,
	)
	if err := s.sender.Send(ctx, user.Email, "Password reset code", body); err != nil {
		// The code was already persisted; clear it so a code the user never
		// received cannot linger as a valid credential.
		if clearErr := s.repo.ClearResetCode(ctx, user.Email); clearErr != nil {
			s.log.Warn().Err(clearErr).Str("email", user.Email).Msg("failed to roll back reset code")
		}
		metrics.EmailsSentTotal.WithLabelValues(purposeReset, "error").Inc()
		return fmt.Errorf("send reset email: %w", err)
	}

	metrics.EmailsSentTotal.WithLabelValues(purposeReset, "ok").Inc()
	metrics.CodesIssuedTotal.WithLabelValues(purposeReset).Inc()
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if newPassword == "" {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.repo.ResetPassword(ctx, email, code, time.Now().UTC(), string(hash)); err != nil {
		return err
	}

	s.log.Info().Str("email", email).Msg("password reset")
	return nil
}

// issueVerificationCode persists a fresh activation/2FA code and emails it.
// Exactly one email per issuance; on send failure the persisted code is
// rolled back best-effort and the error surfaces to the caller.
func (s *AuthService) issueVerificationCode(ctx context.Context, email, purpose string) error {
	if s.limiter != nil && !s.limiter.Allow(ctx, purpose+":"+email) {
		return domain.ErrCodeRequestLimit
	}

	code := newVerificationCode()
	if err := s.repo.SetVerificationCode(ctx, email, code, time.Now().UTC().Add(codeTTL)); err != nil {
		return err
	}

	kind := "account activation"
	if purpose == purposeLogin {
		kind = "login"
	}
	body := fmt.Sprintf("<p>Your %s code is: <b>%s</b></p><p>It is valid for 10 minutes.</p>", kind, code)

	if err := s.sender.Send(ctx, email, "Verification code", body); err != nil {
		if clearErr := s.repo.ClearVerificationCode(ctx, email); clearErr != nil {
			s.log.Warn().Err(clearErr).Str("email", email).Msg("failed to roll back verification code")
		}
		metrics.EmailsSentTotal.WithLabelValues(purpose, "error").Inc()
		return fmt.Errorf("send verification email: %w", err)
	}

	metrics.EmailsSentTotal.WithLabelValues(purpose, "ok").Inc()
	metrics.CodesIssuedTotal.WithLabelValues(purpose).Inc()
	return nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"uid": user.ID,
		"exp": time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
