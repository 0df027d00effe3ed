package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/task-tracker/internal/api/dto"
	"github.com/spec-kit/task-tracker/internal/auth"
	"github.com/spec-kit/task-tracker/internal/service"
)

// AuthHandler exposes registration, login and profile endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	user, err := h.auth.RegisterUser(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.RegisterResponse{
		Message: "User registered successfully",
		User:    dto.NewUserResponse(user, false),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	res, err := h.auth.LoginUser(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.LoginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		User:      dto.NewUserResponse(res.User, false),
	})
}

// Profile handles GET /api/user/profile.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	userID, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Profile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user, true))
}

// Me handles GET /api/protected/me. It answers from the token alone.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := auth.RequireIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Protected route accessed successfully",
		"user":    fiber.Map{"id": userID},
	})
}
