package router

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"inventory/internal/auth"
	"inventory/internal/errors"
	"inventory/internal/handler"
)

// Session authenticates requests by their session token. The token is read from the
// session cookie first and from a bearer Authorization header otherwise. On success the
// caller's uuid.UUID is stored under handler.UserIDKey.
func Session(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + handler.SessionCookieName + ",header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  handler.UserIDKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			userID, err := jwtService.Verify(token)
			if err != nil {
				return nil, err
			}
			return userID, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "Not authorized, please login",
				Code:  "NOT_AUTHORIZED",
			})
		},
	})
}
