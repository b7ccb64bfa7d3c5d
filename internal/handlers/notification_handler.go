package handlers

import (
	"context"
	"net/http"

	"github.com/blogspace/server/internal/models"
	"github.com/blogspace/server/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const notificationsPageLimit = 10

// NotificationHandler handles the notification feed
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	blogRepository         repositories.BlogRepository
	userRepository         repositories.UserRepository
	commentRepository      repositories.CommentRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(
	notifRepo repositories.NotificationRepository,
	blogRepo repositories.BlogRepository,
	userRepo repositories.UserRepository,
	commentRepo repositories.CommentRepository,
) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		blogRepository:         blogRepo,
		userRepository:         userRepo,
		commentRepository:      commentRepo,
	}
}

// RegisterNotificationRoutes registers notification routes behind the auth
// gate
func (h *NotificationHandler) RegisterNotificationRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.GET("/new-notification", h.NewNotification, auth)
	e.POST("/notifications", h.Notifications, auth)
	e.POST("/notification-count", h.NotificationCount, auth)
}

// NewNotification reports whether any unseen notification awaits the user
func (h *NotificationHandler) NewNotification(c echo.Context) error {
	user := currentUser(c)

	hasUnseen, err := h.notificationRepository.HasUnseen(c.Request().Context(), user.ID)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "An error occurred while getting notification", nil)
	}

	if !hasUnseen {
		return respond(c, http.StatusOK, "No notification found", echo.Map{"new_notification": false})
	}
	return respond(c, http.StatusOK, "Notification found", echo.Map{"new_notification": true})
}

// Notifications returns the paginated feed, newest first, each entry
// enriched with its blog, actor and optional comment
func (h *NotificationHandler) Notifications(c echo.Context) error {
	user := currentUser(c)

	var req models.NotificationsRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}

	notifications, err := h.notificationRepository.ListByRecipient(
		c.Request().Context(),
		user.ID,
		req.Filter,
		pageSkip(req.Page, notificationsPageLimit),
		notificationsPageLimit,
	)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "An error occurred while getting notification", nil)
	}
	if len(notifications) == 0 {
		return respond(c, http.StatusOK, "No notification found", echo.Map{"notifications": []models.NotificationView{}})
	}

	return respond(c, http.StatusOK, "Notifications found", h.enrichNotifications(c.Request().Context(), notifications))
}

// NotificationCount counts the feed under the same predicate, for the
// pagination UI
func (h *NotificationHandler) NotificationCount(c echo.Context) error {
	user := currentUser(c)

	var req models.NotificationCountRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}

	totalDocs, err := h.notificationRepository.CountByRecipient(c.Request().Context(), user.ID, req.Filter)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "An error occurred while getting notification", nil)
	}

	if totalDocs == 0 {
		return respond(c, http.StatusOK, "No notification found", echo.Map{"totalDocs": totalDocs})
	}
	return respond(c, http.StatusOK, "Notifications found", echo.Map{"totalDocs": totalDocs})
}

// enrichNotifications populates blog, actor and comment references, caching
// lookups per request
func (h *NotificationHandler) enrichNotifications(ctx context.Context, notifications []models.Notification) []models.NotificationView {
	views := make([]models.NotificationView, len(notifications))
	actorCache := make(map[primitive.ObjectID]models.UserCompact)
	blogCache := make(map[primitive.ObjectID]models.NotificationBlogRef)

	for i, n := range notifications {
		views[i] = models.NotificationView{
			ID:        n.ID,
			Type:      n.Type,
			Seen:      n.Seen,
			CreatedAt: n.CreatedAt,
		}

		if ref, ok := blogCache[n.Blog]; ok {
			views[i].Blog = ref
		} else if blog, err := h.blogRepository.GetBlogByID(ctx, n.Blog); err == nil {
			ref := models.NotificationBlogRef{Title: blog.Title, BlogID: blog.BlogID}
			blogCache[n.Blog] = ref
			views[i].Blog = ref
		}

		if actor, ok := actorCache[n.User]; ok {
			views[i].User = actor
		} else if user, err := h.userRepository.GetUserByID(ctx, n.User); err == nil {
			compact := user.ToCompact()
			actorCache[n.User] = compact
			views[i].User = compact
		}

		if n.Comment != nil {
			if comment, err := h.commentRepository.GetCommentByID(ctx, *n.Comment); err == nil {
				views[i].Comment = &models.NotificationCommentRef{Content: comment.Content}
			}
		}
	}
	return views
}
