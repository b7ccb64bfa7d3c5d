package handlers

import (
	"context"
	"net/http"

	"github.com/blogspace/server/internal/models"
	"github.com/blogspace/server/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const commentsPageLimit = 5

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository      repositories.CommentRepository
	blogRepository         repositories.BlogRepository
	userRepository         repositories.UserRepository
	notificationRepository repositories.NotificationRepository
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	blogRepo repositories.BlogRepository,
	userRepo repositories.UserRepository,
	notifRepo repositories.NotificationRepository,
) *CommentHandler {
	return &CommentHandler{
		commentRepository:      commentRepo,
		blogRepository:         blogRepo,
		userRepository:         userRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.POST("/add-comment", h.AddComment, auth)
	e.POST("/get-comments", h.GetComments)
	e.POST("/delete-comment", h.DeleteComment, auth)
}

// AddComment creates a comment, attaches it to the blog and notifies the
// blog's author. The three writes are independent; a partial failure leaves
// the counter and notification out of sync with the comment collection.
func (h *CommentHandler) AddComment(c echo.Context) error {
	user := currentUser(c)

	var req models.AddCommentRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	if len(req.Comment) == 0 {
		return respond(c, http.StatusBadRequest, "Please fill in all fields", nil)
	}

	blogID, err := primitive.ObjectIDFromHex(req.BlogID)
	if err != nil {
		return respond(c, http.StatusBadRequest, "Invalid blog ID", nil)
	}
	blogAuthor, err := primitive.ObjectIDFromHex(req.BlogAuthor)
	if err != nil {
		return respond(c, http.StatusBadRequest, "Invalid blog author ID", nil)
	}

	comment := &models.Comment{
		Blog:    blogID,
		Author:  user.ID,
		Content: req.Comment,
	}

	ctx := c.Request().Context()
	if err := h.commentRepository.CreateComment(ctx, comment); err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while creating comment", nil)
	}

	if err := h.blogRepository.AttachComment(ctx, blogID, comment.ID); err != nil {
		if err == repositories.ErrBlogNotFound {
			return respond(c, http.StatusNotFound, "Blog not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "Error occurred while creating comment", nil)
	}

	notification := &models.Notification{
		Type:            models.NotificationTypeComment,
		Blog:            blogID,
		NotificationFor: blogAuthor,
		User:            user.ID,
		Comment:         &comment.ID,
	}
	if err := h.notificationRepository.CreateNotification(ctx, notification); err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while creating comment", nil)
	}

	return respond(c, http.StatusCreated, "Comment created successfully", models.CreatedComment{
		Content:     comment.Content,
		CommentedAt: comment.CommentedAt,
		ID:          comment.ID,
	})
}

// GetComments lists a blog's comments, newest first, authors populated
func (h *CommentHandler) GetComments(c echo.Context) error {
	var req models.GetCommentsRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	blogID, err := primitive.ObjectIDFromHex(req.BlogID)
	if err != nil {
		return respond(c, http.StatusBadRequest, "Invalid blog ID", nil)
	}

	comments, err := h.commentRepository.GetCommentsByBlogID(c.Request().Context(), blogID, req.Skip, commentsPageLimit)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while fetching comments", nil)
	}
	if len(comments) == 0 {
		return respond(c, http.StatusOK, "no comments yet", []models.CommentView{})
	}

	return respond(c, http.StatusOK, "Comments found", h.commentViews(c.Request().Context(), comments))
}

// DeleteComment deletes a comment and decrements the parent blog's counter
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	var req models.DeleteCommentRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	commentID, err := primitive.ObjectIDFromHex(req.CommentID)
	if err != nil {
		return respond(c, http.StatusBadRequest, "Invalid comment ID", nil)
	}

	ctx := c.Request().Context()
	comment, err := h.commentRepository.DeleteComment(ctx, commentID)
	if err != nil {
		if err == repositories.ErrCommentNotFound {
			return respond(c, http.StatusNotFound, "Comment not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "Error occurred while deleting comment", nil)
	}

	if _, err := h.blogRepository.DecrementCommentCount(ctx, comment.Blog); err != nil {
		if err == repositories.ErrBlogNotFound {
			return respond(c, http.StatusNotFound, "Blog not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "Error occurred while deleting comment", nil)
	}

	return respond(c, http.StatusOK, "Comment deleted successfully", req.CommentID)
}

// commentViews populates each comment's author, caching lookups per request
func (h *CommentHandler) commentViews(ctx context.Context, comments []models.Comment) []models.CommentView {
	views := make([]models.CommentView, len(comments))
	authorCache := make(map[primitive.ObjectID]models.UserCompact)

	for i, comment := range comments {
		views[i] = models.CommentView{
			ID:          comment.ID,
			Content:     comment.Content,
			CommentedAt: comment.CommentedAt,
		}
		if author, ok := authorCache[comment.Author]; ok {
			views[i].Author = author
			continue
		}
		if user, err := h.userRepository.GetUserByID(ctx, comment.Author); err == nil {
			compact := user.ToCompact()
			authorCache[comment.Author] = compact
			views[i].Author = compact
		}
	}
	return views
}
