package handlers

import (
	"net/http"

	"github.com/blogspace/server/internal/models"
	"github.com/blogspace/server/internal/repositories"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const userSearchLimit = 10

// UserHandler handles HTTP requests related to user profiles
type UserHandler struct {
	userRepository repositories.UserRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository) *UserHandler {
	return &UserHandler{userRepository: userRepo}
}

// RegisterPublicRoutes registers routes that need no authentication
func (h *UserHandler) RegisterPublicRoutes(e *echo.Echo) {
	e.POST("/search-user", h.SearchUser)
	e.POST("/get-user", h.GetUser)
}

// RegisterProtectedRoutes registers routes behind the auth gate
func (h *UserHandler) RegisterProtectedRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.POST("/change-password", h.ChangePassword, auth)
	e.POST("/change-profile-img", h.ChangeProfileImg, auth)
	e.POST("/update-profile", h.UpdateProfile, auth)
}

// SearchUser finds users by fullname or username substring
func (h *UserHandler) SearchUser(c echo.Context) error {
	var req models.SearchUserRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Please provide a search query", nil)
	}

	users, err := h.userRepository.SearchUsers(c.Request().Context(), req.Query, userSearchLimit)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while searching user", nil)
	}
	if len(users) == 0 {
		return respond(c, http.StatusNotFound, "No user found", nil)
	}

	profiles := make([]models.UserCompact, len(users))
	for i := range users {
		profiles[i] = users[i].ToCompact()
	}
	return respond(c, http.StatusOK, "Users found", profiles)
}

// GetUser returns one public profile by username
func (h *UserHandler) GetUser(c echo.Context) error {
	var req models.GetUserRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Please provide a username", nil)
	}

	user, err := h.userRepository.GetUserByUsername(c.Request().Context(), req.Username)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return respond(c, http.StatusNotFound, "User not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "Error occurred while getting user", nil)
	}

	// The blog reference list is internal bookkeeping, not profile data
	user.Blogs = nil
	return respond(c, http.StatusOK, "User found", user)
}

// ChangePassword verifies the current password before storing a new hash
func (h *UserHandler) ChangePassword(c echo.Context) error {
	user := currentUser(c)

	var req models.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Please fill in all fields", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PersonalInfo.Password), []byte(req.CurrentPassword)); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid current password", nil)
	}

	if !passwordAcceptable(req.NewPassword) {
		return respond(c, http.StatusBadRequest, "Password must contain at least one uppercase letter, one lowercase letter and one number", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "An error occurred while hashing the password", nil)
	}

	if err := h.userRepository.UpdatePassword(c.Request().Context(), user.ID, string(hash)); err != nil {
		if err == repositories.ErrUserNotFound {
			return respond(c, http.StatusNotFound, "User not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "An error occurred while changing password", nil)
	}

	return respond(c, http.StatusOK, "Password changed successfully", nil)
}

// ChangeProfileImg swaps the avatar URL
func (h *UserHandler) ChangeProfileImg(c echo.Context) error {
	user := currentUser(c)

	var req models.ChangeProfileImgRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Please provide a valid image URL", nil)
	}

	updated, err := h.userRepository.UpdateProfileImg(c.Request().Context(), user.ID, req.ProfileImgURL)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return respond(c, http.StatusNotFound, "User not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "An error occurred while changing profile image", nil)
	}

	return respond(c, http.StatusOK, "Profile image changed successfully", updated)
}

// UpdateProfile updates username, bio and social links
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	user := currentUser(c)

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}

	if len(req.Username) < 3 {
		return respond(c, http.StatusBadRequest, "Username must be at least 3 characters long", nil)
	}

	updated, err := h.userRepository.UpdateProfile(c.Request().Context(), user.ID, req.Username, req.Bio, req.SocialLinks)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return respond(c, http.StatusNotFound, "User not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "An error occurred while updating profile", nil)
	}

	updated.Blogs = nil
	return respond(c, http.StatusOK, "Profile updated successfully", updated)
}
