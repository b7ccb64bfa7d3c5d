package handlers

import (
	"github.com/blogspace/server/internal/middleware"
	"github.com/blogspace/server/internal/models"
	"github.com/labstack/echo/v4"
)

// respond writes the uniform JSON envelope every endpoint answers with.
// The error flag mirrors the status class so clients can branch without
// parsing the message.
func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, echo.Map{
		"message": message,
		"data":    data,
		"error":   status >= 400,
	})
}

// currentUser returns the user the auth middleware attached to the request
func currentUser(c echo.Context) *models.User {
	user, _ := c.Get(middleware.UserContextKey).(*models.User)
	return user
}
