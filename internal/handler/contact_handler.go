package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"inventory/internal/service"
)

// ContactHandler forwards support messages from signed-in users.
type ContactHandler struct {
	svc service.ContactService
}

// NewContactHandler creates a contact handler.
func NewContactHandler(svc service.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

// ContactRequest is a message to the support inbox.
type ContactRequest struct {
	Subject string `json:"subject" validate:"max=255"`
	Message string `json:"message" validate:"max=10000"`
}

// ContactUs godoc
// @Summary Send a message to support
// @Tags contact
// @Accept json
// @Produce json
// @Param request body ContactRequest true "Subject and message"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /contactus [post]
func (h *ContactHandler) ContactUs(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req ContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.svc.Send(c.Request().Context(), userID, req.Subject, req.Message); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Success: true, Message: "Email Sent"})
}
