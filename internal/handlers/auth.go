package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/blogspace/server/internal/models"
	"github.com/blogspace/server/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"golang.org/x/crypto/bcrypt"
)

var emailRegex = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// passwordAcceptable enforces the complexity rule: 6-20 chars with at least
// one digit, one lowercase and one uppercase letter. Go's regexp has no
// lookahead, so the class checks are explicit.
func passwordAcceptable(password string) bool {
	if len(password) < 6 || len(password) > 20 {
		return false
	}
	var hasDigit, hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		}
	}
	return hasDigit && hasLower && hasUpper
}

// AuthHandler handles signup and signin
type AuthHandler struct {
	userRepository repositories.UserRepository
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userRepo repositories.UserRepository, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(e *echo.Echo) {
	e.POST("/signup", h.Signup)
	e.POST("/signin", h.SignIn)
}

// Signup handles user registration with email and password
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}

	if len(req.Fullname) < 3 {
		return respond(c, http.StatusBadRequest, "Fullname must be at least 3 characters long", nil)
	}
	if !emailRegex.MatchString(req.Email) {
		return respond(c, http.StatusBadRequest, "Invalid email address", nil)
	}
	if !passwordAcceptable(req.Password) {
		return respond(c, http.StatusBadRequest, "Password must contain at least one uppercase letter, one lowercase letter and one number", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "An error occurred while hashing the password", nil)
	}

	username, err := h.generateUsername(c, req.Email)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "An error occurred while creating the user", nil)
	}

	user := &models.User{
		PersonalInfo: models.PersonalInfo{
			Fullname:   req.Fullname,
			Email:      req.Email,
			Password:   string(hash),
			Username:   username,
			ProfileImg: defaultProfileImg(username),
		},
	}

	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		if err == repositories.ErrEmailTaken {
			return respond(c, http.StatusBadRequest, "User with this email already exists", nil)
		}
		return respond(c, http.StatusInternalServerError, "An error occurred while creating the user", nil)
	}

	payload, err := h.formatAuthPayload(user)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "Failed to generate token", nil)
	}
	return respond(c, http.StatusCreated, "User created successfully", payload)
}

// SignIn handles user authentication with email and password
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req models.SigninRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}

	user, err := h.userRepository.GetUserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return respond(c, http.StatusBadRequest, "User with this email does not exist", nil)
		}
		return respond(c, http.StatusInternalServerError, "An error occurred while logging in", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PersonalInfo.Password), []byte(req.Password)); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid password", nil)
	}

	payload, err := h.formatAuthPayload(user)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "Failed to generate token", nil)
	}
	return respond(c, http.StatusOK, "User signed in successfully", payload)
}

// generateUsername derives a username from the email local-part, appending a
// random suffix when taken
func (h *AuthHandler) generateUsername(c echo.Context, email string) (string, error) {
	username := strings.Split(email, "@")[0]
	taken, err := h.userRepository.UsernameExists(c.Request().Context(), username)
	if err != nil {
		return "", err
	}
	if taken {
		suffix, err := gonanoid.New(3)
		if err != nil {
			return "", err
		}
		username += suffix
	}
	return username, nil
}

// formatAuthPayload bundles the access token with the public profile fields
func (h *AuthHandler) formatAuthPayload(user *models.User) (*models.AuthPayload, error) {
	token, err := h.generateJWT(user)
	if err != nil {
		return nil, err
	}
	return &models.AuthPayload{
		AccessToken: token,
		ProfileImg:  user.PersonalInfo.ProfileImg,
		Username:    user.PersonalInfo.Username,
		Fullname:    user.PersonalInfo.Fullname,
		Email:       user.PersonalInfo.Email,
	}, nil
}

// generateJWT generates a JWT token for a given user
func (h *AuthHandler) generateJWT(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour * 72)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

func defaultProfileImg(seed string) string {
	return "https://api.dicebear.com/6.x/fun-emoji/svg?seed=" + seed
}
