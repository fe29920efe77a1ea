package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"inventory/internal/model"
	"inventory/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookies     CookieConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// RegisterRequest represents a user registration request.
// Required fields and formats are checked by the service so clients get its messages.
type RegisterRequest struct {
	Name     string `json:"name" validate:"max=255"`
	Email    string `json:"email" validate:"max=255"`
	Password string `json:"password" validate:"max=72"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"max=255"`
	Password string `json:"password" validate:"max=72"`
}

// ChangePasswordRequest represents a password change by a signed-in user.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"max=72"`
	Password    string `json:"password" validate:"max=72"`
}

// ForgotPasswordRequest asks for a reset email.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"max=255"`
}

// ResetPasswordRequest carries the new password for a reset link.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"max=72"`
}

// AuthResponse is the profile of the signed-in user plus the session token.
type AuthResponse struct {
	model.Profile
	Token string `json:"token"`
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondError(c, err)
	}

	c.SetCookie(h.cookies.session(result.Token, result.ExpiresAt))
	return c.JSON(http.StatusCreated, AuthResponse{Profile: *result.Profile, Token: result.Token})
}

// Login godoc
// @Summary Login user
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	c.SetCookie(h.cookies.session(result.Token, result.ExpiresAt))
	return c.JSON(http.StatusOK, AuthResponse{Profile: *result.Profile, Token: result.Token})
}

// Logout godoc
// @Summary Logout user
// @Description Expires the session cookie. Tokens are stateless, so a copied token stays valid until it expires.
// @Tags users
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /users/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.cookies.expired())
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Successfully Logged Out"})
}

// LoggedIn godoc
// @Summary Report whether the session cookie holds a valid token
// @Tags users
// @Produce json
// @Success 200 {boolean} boolean
// @Router /users/loggedin [get]
func (h *AuthHandler) LoggedIn(c echo.Context) error {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusOK, false)
	}
	return c.JSON(http.StatusOK, h.authService.LoginStatus(cookie.Value))
}

// ChangePassword godoc
// @Summary Change the signed-in user's password
// @Tags users
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Old and new password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/changepassword [patch]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), userID, req.OldPassword, req.Password); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Password change successful"})
}

// ForgotPassword godoc
// @Summary Email a password reset link
// @Description Always reports success for well-formed requests so account existence is not revealed.
// @Tags users
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/forgotpassword [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Reset Email Sent"})
}

// ResetPassword godoc
// @Summary Set a new password with a reset token
// @Tags users
// @Accept json
// @Produce json
// @Param resetToken path string true "Reset token from the email link"
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/resetpassword/{resetToken} [put]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), c.Param("resetToken"), req.Password); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Password Reset Successful, Please Login"})
}
