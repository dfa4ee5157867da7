package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/asilvr/taskdeck/internal/auth"
	"github.com/asilvr/taskdeck/internal/tasks"
)

type Handler struct {
	authService *auth.Service
	taskService *tasks.Service
	log         *zap.Logger
}

func NewHandler(authService *auth.Service, taskService *tasks.Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{authService: authService, taskService: taskService, log: log}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	apiGroup := router.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", h.handleRegister)
	authGroup.POST("/login", h.handleLogin)

	taskGroup := apiGroup.Group("/tasks")
	taskGroup.Use(RequireAuth(h.authService))
	taskGroup.GET("", h.handleListTasks)
	taskGroup.GET("/:id", h.handleGetTask)
	taskGroup.POST("", h.handleCreateTask)
	taskGroup.PUT("/:id", h.handleUpdateTask)
	taskGroup.DELETE("/:id", h.handleDeleteTask)
	taskGroup.PATCH("/:id/toggle", h.handleToggleTask)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Please provide all required fields")
		return
	}

	result, err := h.authService.Register(c.Request.Context(), auth.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			writeError(c, http.StatusBadRequest, "Please provide all required fields")
		case errors.Is(err, auth.ErrUserExists):
			writeError(c, http.StatusBadRequest, "User already exists")
		default:
			h.serverError(c, "register failed", err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   result.Token,
		"user":    result.User,
	})
}

func (h *Handler) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "Please provide email and password")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingFields):
			writeError(c, http.StatusBadRequest, "Please provide email and password")
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeError(c, http.StatusUnauthorized, "Invalid credentials")
		default:
			h.serverError(c, "login failed", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   result.Token,
		"user":    result.User,
	})
}

// serverError logs the underlying failure and answers with a generic message.
// Driver and query detail never reaches the caller.
func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	h.log.Error(msg,
		zap.String("path", c.FullPath()),
		zap.String("requestId", c.GetString(requestIDKey)),
		zap.Error(err),
	)
	writeError(c, http.StatusInternalServerError, "Server error")
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
