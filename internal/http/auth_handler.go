package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bazar-api/internal/service"
)

// AuthHandler mantiene dependencias para endpoints de autenticación.
type AuthHandler struct {
	logger    *zap.Logger
	authServ  *service.AuthService
	jwtServ   *service.JWTService
	watchdogs *service.SessionWatchdogs
}

func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService, jwtServ *service.JWTService, watchdogs *service.SessionWatchdogs) *AuthHandler {
	return &AuthHandler{
		logger:    logger,
		authServ:  authServ,
		jwtServ:   jwtServ,
		watchdogs: watchdogs,
	}
}

// Register maneja POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		BusinessName string `json:"business_name" binding:"required"`
		Email        string `json:"email" binding:"required"`
		Password     string `json:"password" binding:"required"`
		Phone        string `json:"phone"`
		Language     string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.authServ.Register(c.Request.Context(), service.RegisterInput{
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Password:     req.Password,
		Phone:        req.Phone,
		Language:     req.Language,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		case errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": "password must be at least medium strength (use 3 of: uppercase, lowercase, number, special, min 8 chars)"})
		case errors.Is(err, service.ErrDuplicateUser):
			c.JSON(http.StatusConflict, gin.H{"error": "user with this email already exists"})
		default:
			h.logger.Error("register failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
		}
		return
	}

	tokens, err := h.jwtServ.GeneratePair(user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}
	h.watchdogs.Start(user.ID)
	c.JSON(http.StatusCreated, gin.H{"user": user, "tokens": tokens})
}

// Login maneja POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
		Code     string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := h.authServ.Login(c.Request.Context(), req.Email, req.Password, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrInvalidPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		case errors.Is(err, service.ErrCodeExpired):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "code expired, request a new one"})
		case errors.Is(err, service.ErrInvalidCode):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid code"})
		case errors.Is(err, service.ErrEmailSendFailure):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email delivery unavailable"})
		default:
			h.logger.Error("login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not log in"})
		}
		return
	}

	if result.RequiresCode {
		c.JSON(http.StatusOK, gin.H{
			"status":  "code_required",
			"reason":  result.Reason,
			"message": result.Hint,
		})
		return
	}

	tokens, err := h.jwtServ.GeneratePair(result.User)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}
	h.watchdogs.Start(result.User.ID)
	c.JSON(http.StatusOK, gin.H{"user": result.User, "tokens": tokens})
}

// Refresh maneja POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	tokens, err := h.jwtServ.RefreshPair(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout maneja POST /auth/logout. Es idempotente.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken != "" {
		_ = h.jwtServ.RevokeRefresh(req.RefreshToken)
	}

	if err := h.authServ.Logout(c.Request.Context(), claims.UserID); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not log out"})
		return
	}
	h.watchdogs.Stop(claims.UserID)
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

// RequestTwoFactorCode maneja POST /auth/2fa/request.
func (h *AuthHandler) RequestTwoFactorCode(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	err := h.authServ.SendTwoFactorCode(c.Request.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		case errors.Is(err, service.ErrEmailSendFailure):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email delivery unavailable"})
		default:
			h.logger.Error("request 2fa code failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send code"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "code_sent"})
}

// EnableTwoFactor maneja POST /auth/2fa/enable.
func (h *AuthHandler) EnableTwoFactor(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if err := h.authServ.EnableTwoFactor(c.Request.Context(), claims.UserID, req.Phone); err != nil {
		h.logger.Error("enable 2fa failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not enable 2fa"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "two_factor_enabled"})
}

// DisableTwoFactor maneja POST /auth/2fa/disable.
func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	if err := h.authServ.DisableTwoFactor(c.Request.Context(), claims.UserID); err != nil {
		h.logger.Error("disable 2fa failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not disable 2fa"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "two_factor_disabled"})
}

// Me maneja GET /me: devuelve la sesión persistida.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	user, err := h.authServ.CurrentSession(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
			return
		}
		h.logger.Error("load session failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateMe maneja PATCH /me.
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	var req service.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	user, err := h.authServ.UpdateUser(c.Request.Context(), claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSession):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no active session"})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		default:
			h.logger.Error("update user failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
