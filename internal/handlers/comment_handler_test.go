package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/blogspace/server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newCommentFixture() (*CommentHandler, *fakeCommentRepo, *fakeBlogRepo, *fakeUserRepo, *fakeNotificationRepo) {
	commentRepo := newFakeCommentRepo()
	blogRepo := newFakeBlogRepo()
	userRepo := newFakeUserRepo()
	notifRepo := newFakeNotificationRepo()
	h := NewCommentHandler(commentRepo, blogRepo, userRepo, notifRepo)
	return h, commentRepo, blogRepo, userRepo, notifRepo
}

func TestAddCommentRejectsEmptyText(t *testing.T) {
	h, _, blogRepo, userRepo, _ := newCommentFixture()
	author := seedUser(t, userRepo, "Jane Doe", "jane@example.com", "jane", "Secret1x")
	reader := seedUser(t, userRepo, "John Doe", "john@example.com", "john", "Secret1x")
	blog := seedBlog(blogRepo, author.ID, "a-post", "A Post", false, time.Now())

	body := `{"_id":"` + blog.ID.Hex() + `","comment":"","blog_author":"` + author.ID.Hex() + `"}`
	c, rec := newJSONContext(t, newTestEcho(), body, reader)
	require.NoError(t, h.AddComment(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddCommentCreatesEverything(t *testing.T) {
	h, commentRepo, blogRepo, userRepo, notifRepo := newCommentFixture()
	author := seedUser(t, userRepo, "Jane Doe", "jane@example.com", "jane", "Secret1x")
	reader := seedUser(t, userRepo, "John Doe", "john@example.com", "john", "Secret1x")
	blog := seedBlog(blogRepo, author.ID, "a-post", "A Post", false, time.Now())

	body := `{"_id":"` + blog.ID.Hex() + `","comment":"great read","blog_author":"` + author.ID.Hex() + `"}`
	c, rec := newJSONContext(t, newTestEcho(), body, reader)
	require.NoError(t, h.AddComment(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.CreatedComment
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	assert.Equal(t, "great read", created.Content)
	assert.False(t, created.ID.IsZero())

	assert.Equal(t, int64(1), blog.Activity.TotalComments)
	require.Len(t, blog.Comments, 1)
	assert.Equal(t, created.ID, blog.Comments[0])
	require.Len(t, commentRepo.comments, 1)

	n := singleNotification(t, notifRepo)
	assert.Equal(t, models.NotificationTypeComment, n.Type)
	assert.Equal(t, author.ID, n.NotificationFor)
	require.NotNil(t, n.Comment)
	assert.Equal(t, created.ID, *n.Comment)
}

func TestAddCommentBlogNotFound(t *testing.T) {
	h, _, _, userRepo, _ := newCommentFixture()
	reader := seedUser(t, userRepo, "John Doe", "john@example.com", "john", "Secret1x")

	body := `{"_id":"` + primitive.NewObjectID().Hex() + `","comment":"hello","blog_author":"` + primitive.NewObjectID().Hex() + `"}`
	c, rec := newJSONContext(t, newTestEcho(), body, reader)
	require.NoError(t, h.AddComment(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetCommentsPopulatesAuthors(t *testing.T) {
	h, commentRepo, blogRepo, userRepo, _ := newCommentFixture()
	author := seedUser(t, userRepo, "Jane Doe", "jane@example.com", "jane", "Secret1x")
	reader := seedUser(t, userRepo, "John Doe", "john@example.com", "john", "Secret1x")
	blog := seedBlog(blogRepo, author.ID, "a-post", "A Post", false, time.Now())

	require.NoError(t, commentRepo.CreateComment(nil, &models.Comment{Blog: blog.ID, Author: reader.ID, Content: "first"}))

	c, rec := newJSONContext(t, newTestEcho(), `{"_id":"`+blog.ID.Hex()+`","skip":0}`, nil)
	require.NoError(t, h.GetComments(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var views []models.CommentView
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "first", views[0].Content)
	assert.Equal(t, "john", views[0].Author.Username)
}

func TestGetCommentsEmpty(t *testing.T) {
	h, _, blogRepo, userRepo, _ := newCommentFixture()
	author := seedUser(t, userRepo, "Jane Doe", "jane@example.com", "jane", "Secret1x")
	blog := seedBlog(blogRepo, author.ID, "a-post", "A Post", false, time.Now())

	c, rec := newJSONContext(t, newTestEcho(), `{"_id":"`+blog.ID.Hex()+`","skip":0}`, nil)
	require.NoError(t, h.GetComments(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, rec).Data))
}

func TestDeleteCommentDecrementsCounter(t *testing.T) {
	h, commentRepo, blogRepo, userRepo, _ := newCommentFixture()
	author := seedUser(t, userRepo, "Jane Doe", "jane@example.com", "jane", "Secret1x")
	reader := seedUser(t, userRepo, "John Doe", "john@example.com", "john", "Secret1x")
	blog := seedBlog(blogRepo, author.ID, "a-post", "A Post", false, time.Now())
	blog.Activity.TotalComments = 1

	comment := &models.Comment{Blog: blog.ID, Author: reader.ID, Content: "gone soon"}
	require.NoError(t, commentRepo.CreateComment(nil, comment))

	c, rec := newJSONContext(t, newTestEcho(), `{"commentId":"`+comment.ID.Hex()+`"}`, reader)
	require.NoError(t, h.DeleteComment(c))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(0), blog.Activity.TotalComments)
	assert.Empty(t, commentRepo.comments)
	assert.JSONEq(t, `"`+comment.ID.Hex()+`"`, string(decodeEnvelope(t, rec).Data))
}

func TestDeleteCommentNotFound(t *testing.T) {
	h, _, _, userRepo, _ := newCommentFixture()
	reader := seedUser(t, userRepo, "John Doe", "john@example.com", "john", "Secret1x")

	c, rec := newJSONContext(t, newTestEcho(), `{"commentId":"`+primitive.NewObjectID().Hex()+`"}`, reader)
	require.NoError(t, h.DeleteComment(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
