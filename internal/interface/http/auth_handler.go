package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mezshop/shop-api/config"
	"github.com/mezshop/shop-api/internal/application"
	"github.com/mezshop/shop-api/internal/infrastructure/postgres"
	"github.com/mezshop/shop-api/internal/interface/middleware"
	"github.com/mezshop/shop-api/internal/session"
	"github.com/mezshop/shop-api/pkg/helpers"
	"github.com/mezshop/shop-api/pkg/response"
	"github.com/mezshop/shop-api/pkg/validation"
)

type AuthHandler struct {
	Svc      *application.AuthService
	Sessions *session.Manager
	Cookies  *helpers.CookieManager
	Audit    *postgres.AuditLogger
	Logger   *logrus.Logger
	Cfg      *config.Config
}

func NewAuthHandler(svc *application.AuthService, sessions *session.Manager, audit *postgres.AuditLogger, logger *logrus.Logger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		Svc:      svc,
		Sessions: sessions,
		Cookies:  helpers.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure),
		Audit:    audit,
		Logger:   logger,
		Cfg:      cfg,
	}
}

func clientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}

func (h *AuthHandler) audit(c *gin.Context, userID, email, action string, metadata map[string]any) {
	if err := h.Audit.Insert(c.Request.Context(), userID, email, action, clientIP(c), c.GetHeader("User-Agent"), metadata); err != nil && h.Logger != nil {
		h.Logger.WithError(err).WithField("action", action).Warn("audit insert failed")
	}
}

type signupRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Name            string `json:"name" binding:"required"`
	Password        string `json:"password" binding:"required,pwd"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

// Signup POST /api/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Signup(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrEmailTaken) {
			response.Error[any](c, http.StatusUnprocessableEntity, "invalid payload", map[string]string{"email": "Email exists already"})
			return
		}
		h.Logger.WithError(err).Error("signup failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	h.audit(c, u.ID, u.Email, "signup", nil)
	response.Success(c, http.StatusCreated, gin.H{"id": u.ID, "email": u.Email, "name": u.Name}, "account created", nil)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.audit(c, "", req.Email, "login_failed", nil)
		response.Error[any](c, http.StatusUnauthorized, "invalid email or password", nil)
		return
	}

	// A fresh session id is issued on every login; any pre-login session is
	// destroyed with it.
	oldSID := c.GetString(middleware.CtxSIDKey)
	sid, err := h.Sessions.Login(c.Request.Context(), oldSID, u.ID)
	if err != nil {
		h.Logger.WithError(err).Error("session create failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	h.Cookies.SetSession(c, sid, h.Cfg.SessionTTL)
	h.audit(c, u.ID, u.Email, "login", nil)
	response.Success(c, http.StatusOK, gin.H{"id": u.ID, "email": u.Email, "name": u.Name}, "login successful", nil)
}

// Logout POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	sid := c.GetString(middleware.CtxSIDKey)
	if err := h.Sessions.Logout(c.Request.Context(), sid); err != nil {
		h.Logger.WithError(err).Warn("session destroy failed")
	}
	h.Cookies.Clear(c)
	response.Success[any](c, http.StatusOK, gin.H{"logged_out": true}, "logged out", nil)
}

// Me GET /api/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, _ := middleware.UserFrom(c)
	response.Success(c, http.StatusOK, gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"name":       u.Name,
		"created_at": u.CreatedAt,
	}, "profile", nil)
}

type resetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// RequestReset POST /api/reset
// Always answers OK so the endpoint can't be used to enumerate accounts.
func (h *AuthHandler) RequestReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.RequestReset(c.Request.Context(), req.Email, clientIP(c), c.GetHeader("User-Agent")); err != nil {
		h.Logger.WithError(err).Error("reset request failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	h.audit(c, "", req.Email, "reset_requested", nil)
	response.Success[any](c, http.StatusOK, gin.H{"reset": "requested"}, "if the account exists, a reset email is on its way", nil)
}

// CheckResetToken GET /api/reset/:token
// The handshake the reset form performs before asking for a new password.
func (h *AuthHandler) CheckResetToken(c *gin.Context) {
	u, err := h.Svc.GetUserForReset(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "invalid or expired token", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user_id": u.ID}, "token valid", nil)
}

type newPasswordRequest struct {
	UserID   string `json:"user_id" binding:"required,uuid"`
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
}

// CompleteReset POST /api/new-password
func (h *AuthHandler) CompleteReset(c *gin.Context) {
	var req newPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	if err := h.Svc.CompleteReset(c.Request.Context(), req.UserID, req.Token, req.Password); err != nil {
		if errors.Is(err, application.ErrInvalidOrExpiredToken) {
			response.Error[any](c, http.StatusUnprocessableEntity, "invalid or expired token", nil)
			return
		}
		h.Logger.WithError(err).Error("reset completion failed")
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
		return
	}
	h.audit(c, req.UserID, "", "reset_completed", map[string]any{"token": "redacted"})
	response.Success[any](c, http.StatusOK, gin.H{"reset": true}, "password updated", nil)
}
