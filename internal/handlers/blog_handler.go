package handlers

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/blogspace/server/internal/models"
	"github.com/blogspace/server/internal/repositories"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	latestBlogsLimit   = 5
	trendingBlogsLimit = 10
	searchBlogsLimit   = 5
	userBlogsLimit     = 5
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// BlogHandler handles HTTP requests related to blogs
type BlogHandler struct {
	blogRepository         repositories.BlogRepository
	userRepository         repositories.UserRepository
	commentRepository      repositories.CommentRepository
	notificationRepository repositories.NotificationRepository
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(
	blogRepo repositories.BlogRepository,
	userRepo repositories.UserRepository,
	commentRepo repositories.CommentRepository,
	notifRepo repositories.NotificationRepository,
) *BlogHandler {
	return &BlogHandler{
		blogRepository:         blogRepo,
		userRepository:         userRepo,
		commentRepository:      commentRepo,
		notificationRepository: notifRepo,
	}
}

// RegisterPublicRoutes registers routes that need no authentication
func (h *BlogHandler) RegisterPublicRoutes(e *echo.Echo) {
	e.POST("/latest-blogs", h.LatestBlogs)
	e.GET("/trending-blogs", h.TrendingBlogs)
	e.POST("/search-blogs", h.SearchBlogs)
	e.POST("/blog-count", h.BlogCount)
	e.POST("/get-blog", h.GetBlog)
}

// RegisterProtectedRoutes registers routes behind the auth gate
func (h *BlogHandler) RegisterProtectedRoutes(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.POST("/create-blog", h.CreateBlog, auth)
	e.POST("/delete-blog", h.DeleteBlog, auth)
	e.POST("/user-blogs", h.UserBlogs, auth)
	e.POST("/user-blogs-count", h.UserBlogsCount, auth)
}

// CreateBlog creates a new blog, or fully overwrites an existing one when the
// request carries its slug
func (h *BlogHandler) CreateBlog(c echo.Context) error {
	user := currentUser(c)

	var req models.CreateBlogRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}

	if req.Title == "" {
		return respond(c, http.StatusBadRequest, "Please fill in all fields", nil)
	}
	if !req.Draft && (req.Des == "" || req.Banner == "" || len(req.Tags) == 0) {
		return respond(c, http.StatusBadRequest, "Please fill in all fields", nil)
	}
	if len(req.Content.Blocks) == 0 {
		return respond(c, http.StatusBadRequest, "Please fill in all fields", nil)
	}

	tags := make([]string, len(req.Tags))
	for i, tag := range req.Tags {
		tags[i] = strings.ToLower(tag)
	}

	blog := &models.Blog{
		Title:   req.Title,
		Content: req.Content,
		Banner:  req.Banner,
		Des:     req.Des,
		Tags:    tags,
		Author:  user.ID,
		Draft:   req.Draft,
	}

	if req.ID != "" {
		updated, err := h.blogRepository.UpdateBlogBySlug(c.Request().Context(), req.ID, blog)
		if err != nil {
			if err == repositories.ErrBlogNotFound {
				return respond(c, http.StatusNotFound, "Blog not found", nil)
			}
			return respond(c, http.StatusInternalServerError, "Error occurred while updating blog", nil)
		}
		return respond(c, http.StatusCreated, "Blog updated successfully", updated)
	}

	slug, err := generateBlogID(req.Title)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while creating blog", nil)
	}
	blog.BlogID = slug

	if err := h.blogRepository.CreateBlog(c.Request().Context(), blog); err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while creating blog", nil)
	}

	// Drafts stay off the author's public ledger until published
	if !req.Draft {
		if err := h.userRepository.AttachBlog(c.Request().Context(), user.ID, blog.ID, 1); err != nil {
			return respond(c, http.StatusInternalServerError, "Error occurred while updating user", nil)
		}
	}

	return respond(c, http.StatusCreated, "Blog created successfully", blog)
}

// DeleteBlog removes a blog along with its notifications and comments, then
// fixes up the author's counters. The steps are independent writes; a failure
// partway leaves orphans.
func (h *BlogHandler) DeleteBlog(c echo.Context) error {
	user := currentUser(c)

	var req models.DeleteBlogRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	blogID, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		return respond(c, http.StatusBadRequest, "Invalid blog ID", nil)
	}

	ctx := c.Request().Context()
	blog, err := h.blogRepository.DeleteBlog(ctx, blogID)
	if err != nil {
		if err == repositories.ErrBlogNotFound {
			return respond(c, http.StatusNotFound, "Blog not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "Error occurred while deleting blog", nil)
	}

	if err := h.notificationRepository.DeleteByBlogID(ctx, blogID); err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while deleting blog", nil)
	}
	if err := h.commentRepository.DeleteCommentsByBlogID(ctx, blogID); err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while deleting blog", nil)
	}
	if err := h.userRepository.DetachBlog(ctx, user.ID, blogID, -1); err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while deleting blog", nil)
	}

	return respond(c, http.StatusOK, "Blog deleted successfully", blog)
}

// GetBlog returns one blog by slug and counts the read unless the editor is
// asking for it
func (h *BlogHandler) GetBlog(c echo.Context) error {
	var req models.GetBlogRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}
	if err := c.Validate(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Please provide a blog ID", nil)
	}

	var inc int64 = 1
	if req.Mode == "edit" {
		inc = 0
	}

	ctx := c.Request().Context()
	blog, err := h.blogRepository.GetBlogAndIncrementReads(ctx, req.BlogID, inc)
	if err != nil {
		if err == repositories.ErrBlogNotFound {
			return respond(c, http.StatusNotFound, "Blog not found", nil)
		}
		return respond(c, http.StatusInternalServerError, "Error occurred while fetching blog", nil)
	}

	if blog.Draft && !req.Draft {
		return respond(c, http.StatusNotFound, "draft blog not accessible", nil)
	}

	detail := models.BlogDetail{Blog: *blog}
	author, err := h.userRepository.GetUserByID(ctx, blog.Author)
	if err == nil {
		detail.AuthorInfo = author.ToCompact()
		if err := h.userRepository.IncrementReadCount(ctx, author.PersonalInfo.Username, inc); err != nil {
			return respond(c, http.StatusInternalServerError, "Error occurred while updating user", nil)
		}
	}

	return respond(c, http.StatusOK, "Blog found", detail)
}

// LatestBlogs returns the paginated public feed, newest first
func (h *BlogHandler) LatestBlogs(c echo.Context) error {
	var req models.LatestBlogsRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}

	published := false
	blogs, err := h.blogRepository.FindBlogs(
		c.Request().Context(),
		repositories.BlogFilter{Draft: &published},
		pageSkip(req.Page, latestBlogsLimit),
		latestBlogsLimit,
	)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while fetching blogs", nil)
	}
	if len(blogs) == 0 {
		return respond(c, http.StatusOK, "No blogs found", []models.BlogPreview{})
	}

	return respond(c, http.StatusOK, "Blogs found", h.blogPreviews(c.Request().Context(), blogs))
}

// TrendingBlogs returns the top published blogs by reads, likes and recency
func (h *BlogHandler) TrendingBlogs(c echo.Context) error {
	blogs, err := h.blogRepository.FindTrendingBlogs(c.Request().Context(), trendingBlogsLimit)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while fetching blogs", nil)
	}
	if len(blogs) == 0 {
		return respond(c, http.StatusOK, "No blogs found", []models.BlogPreview{})
	}

	return respond(c, http.StatusOK, "Blogs found", h.blogPreviews(c.Request().Context(), blogs))
}

// SearchBlogs filters published blogs by tag, title substring or author
func (h *BlogHandler) SearchBlogs(c echo.Context) error {
	var req models.SearchBlogsRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}

	filter, err := searchFilter(req.Tag, req.Query, req.Author)
	if err != nil {
		return respond(c, http.StatusBadRequest, "Invalid author ID", nil)
	}

	limit := req.Limit
	if limit <= 0 {
		limit = searchBlogsLimit
	}

	blogs, err := h.blogRepository.FindBlogs(c.Request().Context(), filter, pageSkip(req.Page, limit), limit)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while fetching blogs", nil)
	}
	if len(blogs) == 0 {
		return respond(c, http.StatusOK, "No blogs found", []models.BlogPreview{})
	}

	return respond(c, http.StatusOK, "Blogs found", h.blogPreviews(c.Request().Context(), blogs))
}

// BlogCount counts published blogs under the same filters as the search
func (h *BlogHandler) BlogCount(c echo.Context) error {
	var req models.SearchBlogsRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}

	filter, err := searchFilter(req.Tag, req.Query, req.Author)
	if err != nil {
		return respond(c, http.StatusBadRequest, "Invalid author ID", nil)
	}

	totalDocs, err := h.blogRepository.CountBlogs(c.Request().Context(), filter)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while fetching blogs", nil)
	}

	return respond(c, http.StatusOK, "Blogs found", echo.Map{"totalDocs": totalDocs})
}

// UserBlogs lists the authenticated user's blogs for the dashboard, with the
// pagination window shifted by client-reported deletions
func (h *BlogHandler) UserBlogs(c echo.Context) error {
	user := currentUser(c)

	var req models.UserBlogsRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}

	skip := pageSkip(req.Page, userBlogsLimit) - req.DeletedDocCount

	blogs, err := h.blogRepository.FindBlogs(
		c.Request().Context(),
		repositories.BlogFilter{Author: &user.ID, Draft: &req.Draft, Query: req.Query},
		skip,
		userBlogsLimit,
	)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while fetching user blogs", nil)
	}
	if len(blogs) == 0 {
		return respond(c, http.StatusOK, "No blogs found", []models.BlogPreview{})
	}

	return respond(c, http.StatusOK, "Blogs found", h.blogPreviews(c.Request().Context(), blogs))
}

// UserBlogsCount counts the authenticated user's blogs for the dashboard
func (h *BlogHandler) UserBlogsCount(c echo.Context) error {
	user := currentUser(c)

	var req models.UserBlogsCountRequest
	if err := c.Bind(&req); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload", nil)
	}

	totalDocs, err := h.blogRepository.CountBlogs(
		c.Request().Context(),
		repositories.BlogFilter{Author: &user.ID, Draft: &req.Draft, Query: req.Query},
	)
	if err != nil {
		return respond(c, http.StatusInternalServerError, "Error occurred while fetching user blogs", nil)
	}

	return respond(c, http.StatusOK, "Blogs found", echo.Map{"totalDocs": totalDocs})
}

// blogPreviews populates each blog's author, caching lookups per request
func (h *BlogHandler) blogPreviews(ctx context.Context, blogs []models.Blog) []models.BlogPreview {
	previews := make([]models.BlogPreview, len(blogs))
	authorCache := make(map[primitive.ObjectID]models.UserCompact)

	for i, blog := range blogs {
		previews[i] = models.BlogPreview{
			BlogID:      blog.BlogID,
			Title:       blog.Title,
			Banner:      blog.Banner,
			Des:         blog.Des,
			Tags:        blog.Tags,
			Activity:    blog.Activity,
			Draft:       blog.Draft,
			PublishedAt: blog.PublishedAt,
		}
		if author, ok := authorCache[blog.Author]; ok {
			previews[i].Author = author
			continue
		}
		if user, err := h.userRepository.GetUserByID(ctx, blog.Author); err == nil {
			compact := user.ToCompact()
			authorCache[blog.Author] = compact
			previews[i].Author = compact
		}
	}
	return previews
}

// searchFilter builds the published-only filter shared by search and count
func searchFilter(tag, query, author string) (repositories.BlogFilter, error) {
	published := false
	filter := repositories.BlogFilter{Draft: &published}
	switch {
	case tag != "":
		filter.Tag = strings.ToLower(tag)
	case query != "":
		filter.Query = query
	case author != "":
		authorID, err := primitive.ObjectIDFromHex(author)
		if err != nil {
			return filter, err
		}
		filter.Author = &authorID
	}
	return filter, nil
}

// pageSkip converts a 1-based page to an offset
func pageSkip(page, limit int64) int64 {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

// generateBlogID derives the unique slug from the title plus a random suffix.
// Collisions are treated as negligible and not re-checked.
func generateBlogID(title string) (string, error) {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	suffix, err := gonanoid.New(5)
	if err != nil {
		return "", err
	}
	return slug + suffix, nil
}
