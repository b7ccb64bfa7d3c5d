package handlers

import (
	"net/http"

	"github.com/blogspace/server/internal/models"
	"github.com/blogspace/server/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeHandler handles the like toggle and its existence check. A like is the
// presence of a like notification for the (blog, actor) pair, plus the blog's
// like counter. The two writes are independent, so the counter is only
// eventually consistent with the notification collection.
type LikeHandler struct {
	blogRepository         repositories.BlogRepository
	notificationRepository repositories.NotificationRepository
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(blogRepo repositories.BlogRepository, notifRepo repositories.NotificationRepository) *LikeHandler {
	return &LikeHandler{
		blogRepository:         blogRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterLikeRoutes registers like-related routes behind the auth gate
func (h *LikeHandler) RegisterLikeRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.POST("/like-blog", h.LikeBlog, auth)
	e.POST("/is-liked-by-user", h.IsLikedByUser, auth)
}

// LikeBlog toggles the acting user's like on a blog. IsLikedByUser reports
// the client's current state: false likes, true unlikes.
func (h *LikeHandler) LikeBlog(c echo.Context) error {
	user := currentUser(c)

	var req models.LikeBlogRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	blogID, err := primitive.ObjectIDFromHex(req.BlogID)
	if err != nil {
		return respond(c, http.StatusBadRequest, "Invalid blog ID", nil)
	}

	var inc int64 = 1
	if req.IsLikedByUser {
		inc = -1
	}

	ctx := c.Request().Context()
	blog, err := h.blogRepository.IncrementLikes(ctx, blogID, inc)
	if err != nil {
		if err == repositories.ErrBlogNotFound {
			return respond(c, http.StatusNotFound, "Blog not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "Error occurred while liking blog", nil)
	}

	if !req.IsLikedByUser {
		notification := &models.Notification{
			Type:            models.NotificationTypeLike,
			Blog:            blogID,
			NotificationFor: blog.Author,
			User:            user.ID,
		}
		if err := h.notificationRepository.CreateNotification(ctx, notification); err != nil {
			return respond(c, http.StatusInternalServerError, "Error occurred while liking blog", nil)
		}
	} else {
		if err := h.notificationRepository.DeleteLikeNotification(ctx, blogID, user.ID); err != nil {
			return respond(c, http.StatusInternalServerError, "Error occurred while liking blog", nil)
		}
	}

	return respond(c, http.StatusOK, "Blog liked successfully", nil)
}

// IsLikedByUser reports whether the acting user currently likes the blog
func (h *LikeHandler) IsLikedByUser(c echo.Context) error {
	user := currentUser(c)

	var req models.IsLikedRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	blogID, err := primitive.ObjectIDFromHex(req.BlogID)
	if err != nil {
		return respond(c, http.StatusBadRequest, "Invalid blog ID", nil)
	}

	liked, err := h.notificationRepository.LikeExists(c.Request().Context(), blogID, user.ID)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while checking like", nil)
	}

	if liked {
		return respond(c, http.StatusOK, "Blog liked by user", true)
	}
	return respond(c, http.StatusOK, "Blog not liked by user", false)
}
