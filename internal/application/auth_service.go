package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mezshop/shop-api/config"
	"github.com/mezshop/shop-api/internal/domain/entity"
	"github.com/mezshop/shop-api/internal/domain/repository"
	"github.com/mezshop/shop-api/internal/session"
	"github.com/mezshop/shop-api/pkg/helpers"
	"github.com/mezshop/shop-api/pkg/mailer"
	tpl "github.com/mezshop/shop-api/pkg/mailer/templates"
)

// EmailQueue is the notifier collaborator: fire-and-forget, no delivery
// confirmation. Satisfied by helpers.RabbitPublisher.
type EmailQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuthService orchestrates signup, login, logout, and the password reset
// state machine over the credential store, the session manager, and the
// email queue.
type AuthService struct {
	Repo     repository.UserRepository
	Sessions *session.Manager
	Queue    EmailQueue
	Cfg      *config.Config
	Logger   *logrus.Logger
}

func NewAuthService(repo repository.UserRepository, sessions *session.Manager, queue EmailQueue, cfg *config.Config, logger *logrus.Logger) *AuthService {
	return &AuthService{Repo: repo, Sessions: sessions, Queue: queue, Cfg: cfg, Logger: logger}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates the account and enqueues a welcome email. A duplicate email
// fails with ErrEmailTaken.
func (s *AuthService) Signup(ctx context.Context, email, name, password string) (*entity.User, error) {
	email = normalizeEmail(email)
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Email: email, Name: name, PasswordHash: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.Welcome,
		Data:     tpl.NewWelcomeData(s.Cfg, u.Name, u.Email),
	})
	return u, nil
}

// Login verifies the credentials. Unknown email and wrong password are the
// same ErrInvalidCredentials; the session itself is the handler's to create.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// RequestReset issues a fresh reset token and mails the link. An unknown
// email succeeds without side effects so the endpoint can't be used to
// enumerate accounts.
func (s *AuthService) RequestReset(ctx context.Context, email, ip, userAgent string) error {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || u == nil {
		return nil
	}

	token, err := helpers.GenerateToken(helpers.ResetTokenBytes)
	if err != nil {
		return err
	}
	expires := time.Now().Add(s.Cfg.ResetTokenTTL)
	if err := s.Repo.SetResetToken(ctx, u.ID, token, expires); err != nil {
		return err
	}

	link := s.Cfg.ResetPasswordURL + "?token=" + token
	s.enqueue(ctx, mailer.EmailJob{
		To:       u.Email,
		Template: tpl.PasswordReset,
		Data: tpl.NewPasswordResetData(
			s.Cfg,
			u.Name,
			u.Email,
			link,
			tpl.WithExpiresIn(s.Cfg.ResetTokenTTL),
			tpl.WithIP(ip),
			tpl.WithUserAgent(userAgent),
		),
	})
	return nil
}

// GetUserForReset resolves a live reset token to its user, for the form that
// collects the new password.
func (s *AuthService) GetUserForReset(ctx context.Context, token string) (*entity.User, error) {
	u, err := s.Repo.GetByResetToken(ctx, token, time.Now())
	if err != nil || u == nil {
		return nil, ErrInvalidOrExpiredToken
	}
	return u, nil
}

// CompleteReset sets the new password if and only if (userID, token) matches
// a live reset window. The store's conditional update clears the token in
// the same statement, so the token is single-use even under concurrent
// completions.
func (s *AuthService) CompleteReset(ctx context.Context, userID, token, newPassword string) error {
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePasswordByResetToken(ctx, userID, token, hash, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return err
	}
	return nil
}

// enqueue hands the job to the queue and only logs on failure; delivery
// problems never fail the request that triggered the email.
func (s *AuthService) enqueue(ctx context.Context, job mailer.EmailJob) {
	if s.Queue == nil || (s.Cfg != nil && !s.Cfg.MailSendEnabled) {
		return
	}
	if err := s.Queue.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", job.Template).Warn("failed to enqueue email job")
	}
}
