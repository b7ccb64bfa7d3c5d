package middleware

import (
	"net/http"
	"strings"

	"github.com/blogspace/server/internal/models"
	"github.com/blogspace/server/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserContextKey is where the resolved user is stored on the request context
const UserContextKey = "user"

// JWTAuth checks for a valid bearer token, resolves the encoded subject to a
// user record and attaches it to the request. Missing header, invalid token
// or failed lookup all halt with 401.
func JWTAuth(userRepo repositories.UserRepository, secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return unauthorized(c)
			}

			// Expecting "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				return unauthorized(c)
			}
			tokenString := parts[1]

			claims := &models.JwtCustomClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.NewHTTPError(http.StatusUnauthorized, "Unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return unauthorized(c)
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				return unauthorized(c)
			}

			user, err := userRepo.GetUserByID(c.Request().Context(), userID)
			if err != nil {
				return unauthorized(c)
			}

			c.Set(UserContextKey, user)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"message": "Unauthorized",
		"data":    nil,
		"error":   true,
	})
}
