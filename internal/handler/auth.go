package handler

import (
	"github.com/deppfellow/handyman-api/internal/middleware"
	"github.com/deppfellow/handyman-api/internal/server"
	"github.com/deppfellow/handyman-api/internal/service"
	"github.com/labstack/echo/v4"
)

// AuthHandler serves /api/auth. Protected endpoints rely on the auth gate
// having stored the caller and its token in the context.
type AuthHandler struct {
	Handler
	authService *service.AuthService
}

func NewAuthHandler(s *server.Server, authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		Handler:     NewHandler(s),
		authService: authService,
	}
}

func (h *AuthHandler) Register(c echo.Context, req *RegisterRequest) (*UserResponse, error) {
	user, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return nil, err
	}

	return &UserResponse{
		Success: true,
		Message: "Registration successful. Please check your email for confirmation.",
		User:    user,
	}, nil
}

func (h *AuthHandler) Login(c echo.Context, req *LoginRequest) (*LoginResponse, error) {
	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	return &LoginResponse{
		Success: true,
		Message: "Login successful",
		User:    session.User,
		Session: session,
	}, nil
}

func (h *AuthHandler) Logout(c echo.Context, _ *EmptyRequest) (*MessageResponse, error) {
	if err := h.authService.Logout(c.Request().Context(), middleware.GetAccessToken(c)); err != nil {
		return nil, err
	}

	return &MessageResponse{
		Success: true,
		Message: "Logout successful",
	}, nil
}

// Me returns the identity resolved by the auth gate without asking the
// provider again.
func (h *AuthHandler) Me(c echo.Context, _ *EmptyRequest) (*UserResponse, error) {
	return &UserResponse{
		Success: true,
		User:    middleware.GetUser(c),
	}, nil
}

func (h *AuthHandler) UpdateProfile(c echo.Context, req *UpdateProfileRequest) (*UserResponse, error) {
	user, err := h.authService.UpdateProfile(c.Request().Context(), middleware.GetAccessToken(c), req.ProfileUpdate())
	if err != nil {
		return nil, err
	}

	return &UserResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    user,
	}, nil
}

func (h *AuthHandler) ForgotPassword(c echo.Context, req *ForgotPasswordRequest) (*MessageResponse, error) {
	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return nil, err
	}

	return &MessageResponse{
		Success: true,
		Message: "Password reset instructions sent to your email",
	}, nil
}

func (h *AuthHandler) ResetPassword(c echo.Context, req *ResetPasswordRequest) (*MessageResponse, error) {
	if err := h.authService.ResetPassword(c.Request().Context(), middleware.GetAccessToken(c), req.Password); err != nil {
		return nil, err
	}

	return &MessageResponse{
		Success: true,
		Message: "Password updated successfully",
	}, nil
}
