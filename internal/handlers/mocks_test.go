package handlers

import (
	"context"
	"sort"
	"strings"

	"github.com/blogspace/server/internal/models"
	"github.com/blogspace/server/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes backing the handler tests.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *models.User) error {
	for _, existing := range r.users {
		if existing.PersonalInfo.Email == user.PersonalInfo.Email {
			return repositories.ErrEmailTaken
		}
	}
	user.ID = primitive.NewObjectID()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range r.users {
		if user.PersonalInfo.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	for _, user := range r.users {
		if user.PersonalInfo.Username == username {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, user := range r.users {
		if user.PersonalInfo.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) SearchUsers(_ context.Context, query string, limit int64) ([]models.User, error) {
	var matches []models.User
	q := strings.ToLower(query)
	for _, user := range r.users {
		if strings.Contains(strings.ToLower(user.PersonalInfo.Fullname), q) ||
			strings.Contains(strings.ToLower(user.PersonalInfo.Username), q) {
			matches = append(matches, *user)
		}
		if int64(len(matches)) == limit {
			break
		}
	}
	return matches, nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.PersonalInfo.Password = hash
	return nil
}

func (r *fakeUserRepo) UpdateProfileImg(_ context.Context, id primitive.ObjectID, url string) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	user.PersonalInfo.ProfileImg = url
	return user, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, username, bio string, links models.SocialLinks) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	before := *user
	user.PersonalInfo.Username = username
	user.PersonalInfo.Bio = bio
	user.SocialLinks = links
	return &before, nil
}

func (r *fakeUserRepo) AttachBlog(_ context.Context, id, blogID primitive.ObjectID, postInc int64) error {
	user, ok := r.users[id]
	if !ok {
		return nil
	}
	user.AccountInfo.TotalPosts += postInc
	user.Blogs = append(user.Blogs, blogID)
	return nil
}

func (r *fakeUserRepo) DetachBlog(_ context.Context, id, blogID primitive.ObjectID, postInc int64) error {
	user, ok := r.users[id]
	if !ok {
		return nil
	}
	user.AccountInfo.TotalPosts += postInc
	kept := user.Blogs[:0]
	for _, ref := range user.Blogs {
		if ref != blogID {
			kept = append(kept, ref)
		}
	}
	user.Blogs = kept
	return nil
}

func (r *fakeUserRepo) IncrementReadCount(_ context.Context, username string, inc int64) error {
	for _, user := range r.users {
		if user.PersonalInfo.Username == username {
			user.AccountInfo.TotalReads += inc
		}
	}
	return nil
}

type fakeBlogRepo struct {
	blogs map[primitive.ObjectID]*models.Blog
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{blogs: make(map[primitive.ObjectID]*models.Blog)}
}

func (r *fakeBlogRepo) CreateBlog(_ context.Context, blog *models.Blog) error {
	blog.ID = primitive.NewObjectID()
	if blog.PublishedAt.IsZero() {
		blog.PublishedAt = blog.ID.Timestamp()
	}
	r.blogs[blog.ID] = blog
	return nil
}

func (r *fakeBlogRepo) UpdateBlogBySlug(_ context.Context, slug string, blog *models.Blog) (*models.Blog, error) {
	for _, existing := range r.blogs {
		if existing.BlogID == slug {
			existing.Title = blog.Title
			existing.Content = blog.Content
			existing.Banner = blog.Banner
			existing.Tags = blog.Tags
			existing.Des = blog.Des
			existing.Draft = blog.Draft
			return existing, nil
		}
	}
	return nil, repositories.ErrBlogNotFound
}

func (r *fakeBlogRepo) GetBlogAndIncrementReads(_ context.Context, slug string, inc int64) (*models.Blog, error) {
	for _, blog := range r.blogs {
		if blog.BlogID == slug {
			before := *blog
			blog.Activity.TotalReads += inc
			return &before, nil
		}
	}
	return nil, repositories.ErrBlogNotFound
}

func (r *fakeBlogRepo) GetBlogByID(_ context.Context, id primitive.ObjectID) (*models.Blog, error) {
	if blog, ok := r.blogs[id]; ok {
		return blog, nil
	}
	return nil, repositories.ErrBlogNotFound
}

func (r *fakeBlogRepo) DeleteBlog(_ context.Context, id primitive.ObjectID) (*models.Blog, error) {
	blog, ok := r.blogs[id]
	if !ok {
		return nil, repositories.ErrBlogNotFound
	}
	delete(r.blogs, id)
	return blog, nil
}

func (r *fakeBlogRepo) matching(filter repositories.BlogFilter) []models.Blog {
	var matches []models.Blog
	for _, blog := range r.blogs {
		if filter.Tag != "" && !containsTag(blog.Tags, filter.Tag) {
			continue
		}
		if filter.Query != "" && !strings.Contains(strings.ToLower(blog.Title), strings.ToLower(filter.Query)) {
			continue
		}
		if filter.Author != nil && blog.Author != *filter.Author {
			continue
		}
		if filter.Draft != nil && blog.Draft != *filter.Draft {
			continue
		}
		matches = append(matches, *blog)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].PublishedAt.After(matches[j].PublishedAt)
	})
	return matches
}

func (r *fakeBlogRepo) FindBlogs(_ context.Context, filter repositories.BlogFilter, skip, limit int64) ([]models.Blog, error) {
	matches := r.matching(filter)
	if skip < 0 {
		skip = 0
	}
	if skip >= int64(len(matches)) {
		return nil, nil
	}
	matches = matches[skip:]
	if int64(len(matches)) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *fakeBlogRepo) FindTrendingBlogs(_ context.Context, limit int64) ([]models.Blog, error) {
	published := false
	matches := r.matching(repositories.BlogFilter{Draft: &published})
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Activity.TotalReads != matches[j].Activity.TotalReads {
			return matches[i].Activity.TotalReads > matches[j].Activity.TotalReads
		}
		if matches[i].Activity.TotalLikes != matches[j].Activity.TotalLikes {
			return matches[i].Activity.TotalLikes > matches[j].Activity.TotalLikes
		}
		return matches[i].PublishedAt.After(matches[j].PublishedAt)
	})
	if int64(len(matches)) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *fakeBlogRepo) CountBlogs(_ context.Context, filter repositories.BlogFilter) (int64, error) {
	return int64(len(r.matching(filter))), nil
}

func (r *fakeBlogRepo) IncrementLikes(_ context.Context, id primitive.ObjectID, inc int64) (*models.Blog, error) {
	blog, ok := r.blogs[id]
	if !ok {
		return nil, repositories.ErrBlogNotFound
	}
	before := *blog
	blog.Activity.TotalLikes += inc
	return &before, nil
}

func (r *fakeBlogRepo) AttachComment(_ context.Context, id, commentID primitive.ObjectID) error {
	blog, ok := r.blogs[id]
	if !ok {
		return repositories.ErrBlogNotFound
	}
	blog.Comments = append(blog.Comments, commentID)
	blog.Activity.TotalComments++
	return nil
}

func (r *fakeBlogRepo) DecrementCommentCount(_ context.Context, id primitive.ObjectID) (*models.Blog, error) {
	blog, ok := r.blogs[id]
	if !ok {
		return nil, repositories.ErrBlogNotFound
	}
	blog.Activity.TotalComments--
	return blog, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

type fakeCommentRepo struct {
	comments map[primitive.ObjectID]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[primitive.ObjectID]*models.Comment)}
}

func (r *fakeCommentRepo) CreateComment(_ context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CommentedAt = comment.ID.Timestamp()
	r.comments[comment.ID] = comment
	return nil
}

func (r *fakeCommentRepo) GetCommentByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	if comment, ok := r.comments[id]; ok {
		return comment, nil
	}
	return nil, repositories.ErrCommentNotFound
}

func (r *fakeCommentRepo) GetCommentsByBlogID(_ context.Context, blogID primitive.ObjectID, skip, limit int64) ([]models.Comment, error) {
	var matches []models.Comment
	for _, comment := range r.comments {
		if comment.Blog == blogID {
			matches = append(matches, *comment)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CommentedAt.After(matches[j].CommentedAt)
	})
	if skip >= int64(len(matches)) {
		return nil, nil
	}
	matches = matches[skip:]
	if int64(len(matches)) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *fakeCommentRepo) DeleteComment(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	comment, ok := r.comments[id]
	if !ok {
		return nil, repositories.ErrCommentNotFound
	}
	delete(r.comments, id)
	return comment, nil
}

func (r *fakeCommentRepo) DeleteCommentsByBlogID(_ context.Context, blogID primitive.ObjectID) error {
	for id, comment := range r.comments {
		if comment.Blog == blogID {
			delete(r.comments, id)
		}
	}
	return nil
}

type fakeNotificationRepo struct {
	notifications map[primitive.ObjectID]*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{notifications: make(map[primitive.ObjectID]*models.Notification)}
}

func (r *fakeNotificationRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = n.ID.Timestamp()
	r.notifications[n.ID] = n
	return nil
}

func (r *fakeNotificationRepo) DeleteLikeNotification(_ context.Context, blogID, actorID primitive.ObjectID) error {
	for id, n := range r.notifications {
		if n.Type == models.NotificationTypeLike && n.Blog == blogID && n.User == actorID {
			delete(r.notifications, id)
		}
	}
	return nil
}

func (r *fakeNotificationRepo) LikeExists(_ context.Context, blogID, actorID primitive.ObjectID) (bool, error) {
	for _, n := range r.notifications {
		if n.Type == models.NotificationTypeLike && n.Blog == blogID && n.User == actorID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) forRecipient(recipientID primitive.ObjectID, typeFilter string) []models.Notification {
	var matches []models.Notification
	for _, n := range r.notifications {
		if n.NotificationFor != recipientID || n.User == recipientID {
			continue
		}
		if typeFilter != "" && typeFilter != "all" && n.Type != typeFilter {
			continue
		}
		matches = append(matches, *n)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches
}

func (r *fakeNotificationRepo) HasUnseen(_ context.Context, recipientID primitive.ObjectID) (bool, error) {
	for _, n := range r.forRecipient(recipientID, "") {
		if !n.Seen {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID primitive.ObjectID, typeFilter string, skip, limit int64) ([]models.Notification, error) {
	matches := r.forRecipient(recipientID, typeFilter)
	if skip >= int64(len(matches)) {
		return nil, nil
	}
	matches = matches[skip:]
	if int64(len(matches)) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (r *fakeNotificationRepo) CountByRecipient(_ context.Context, recipientID primitive.ObjectID, typeFilter string) (int64, error) {
	return int64(len(r.forRecipient(recipientID, typeFilter))), nil
}

func (r *fakeNotificationRepo) DeleteByBlogID(_ context.Context, blogID primitive.ObjectID) error {
	for id, n := range r.notifications {
		if n.Blog == blogID {
			delete(r.notifications, id)
		}
	}
	return nil
}
