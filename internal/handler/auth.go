package handler

import (
	"errors"
	"net/http"

	"sales-kpi/internal/logger"
	"sales-kpi/internal/middleware"
	"sales-kpi/internal/model"
	"sales-kpi/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth   *service.AuthService
	tokens *middleware.Tokens
}

func NewAuthHandler(auth *service.AuthService, tokens *middleware.Tokens) *AuthHandler {
	return &AuthHandler{auth: auth, tokens: tokens}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if errors.Is(err, service.ErrEmailTaken) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "このメールアドレスは既に登録されています"})
		return
	}
	if err != nil {
		logger.ErrorContext(c.Request.Context(), "register.failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "登録に失敗しました"})
		return
	}

	logger.InfoContext(c.Request.Context(), "register.ok", "uid", u.ID)
	h.respondWithToken(c, u)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		logger.WarnContext(c.Request.Context(), "login.failed", "email", req.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "メールアドレスまたはパスワードが正しくありません"})
		return
	}
	if err != nil {
		logger.ErrorContext(c.Request.Context(), "login.error", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	logger.InfoContext(c.Request.Context(), "login.ok", "uid", u.ID)
	h.respondWithToken(c, u)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, u *model.User) {
	info := model.UserInfo{ID: u.ID, Email: u.Email, Name: u.Name}
	token, err := h.tokens.Issue(info)
	if err != nil {
		logger.ErrorContext(c.Request.Context(), "token.sign_failed", "uid", u.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}
	c.JSON(http.StatusOK, model.LoginResponse{Token: token, User: info})
}
