package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"inventory/internal/service"
)

// UserHandler serves the signed-in user's profile.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateUserRequest lists the editable profile fields. Omitted fields are left unchanged.
type UpdateUserRequest struct {
	Name  string `json:"name" validate:"max=255"`
	Phone string `json:"phone" validate:"max=64"`
	Bio   string `json:"bio" validate:"max=1024"`
	Photo string `json:"photo" validate:"omitempty,url,max=512"`
}

// GetUser godoc
// @Summary Get the signed-in user's profile
// @Tags users
// @Produce json
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/getuser [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.svc.GetProfile(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateUser godoc
// @Summary Update the signed-in user's profile
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateUserRequest true "Profile fields"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/updateuser [patch]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.svc.UpdateProfile(c.Request().Context(), userID, service.UpdateProfileInput{
		Name:  req.Name,
		Phone: req.Phone,
		Bio:   req.Bio,
		Photo: req.Photo,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}
