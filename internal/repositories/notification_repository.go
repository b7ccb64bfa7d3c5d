package repositories

import (
	"context"
	"time"

	"github.com/blogspace/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationRepository defines the interface for notification data
// operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	DeleteLikeNotification(ctx context.Context, blogID, actorID primitive.ObjectID) error
	LikeExists(ctx context.Context, blogID, actorID primitive.ObjectID) (bool, error)
	HasUnseen(ctx context.Context, recipientID primitive.ObjectID) (bool, error)
	ListByRecipient(ctx context.Context, recipientID primitive.ObjectID, typeFilter string, skip, limit int64) ([]models.Notification, error)
	CountByRecipient(ctx context.Context, recipientID primitive.ObjectID, typeFilter string) (int64, error)
	DeleteByBlogID(ctx context.Context, blogID primitive.ObjectID) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// CreateNotification inserts a new notification document
func (r *MongoNotificationRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, n)
	return err
}

// DeleteLikeNotification removes the like marker for a (blog, actor) pair
func (r *MongoNotificationRepository) DeleteLikeNotification(ctx context.Context, blogID, actorID primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{
		"type": models.NotificationTypeLike,
		"blog": blogID,
		"user": actorID,
	})
	return err
}

// LikeExists reports whether a like marker exists for a (blog, actor) pair
func (r *MongoNotificationRepository) LikeExists(ctx context.Context, blogID, actorID primitive.ObjectID) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"type": models.NotificationTypeLike,
		"blog": blogID,
		"user": actorID,
	}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// recipientFilter excludes self-authored events; they are never shown
func recipientFilter(recipientID primitive.ObjectID, typeFilter string) bson.M {
	filter := bson.M{
		"notification_for": recipientID,
		"user":             bson.M{"$ne": recipientID},
	}
	if typeFilter != "" && typeFilter != "all" {
		filter["type"] = typeFilter
	}
	return filter
}

// HasUnseen reports whether the recipient has any unseen notification
func (r *MongoNotificationRepository) HasUnseen(ctx context.Context, recipientID primitive.ObjectID) (bool, error) {
	filter := recipientFilter(recipientID, "")
	filter["seen"] = false
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByRecipient lists a recipient's notifications, newest first
func (r *MongoNotificationRepository) ListByRecipient(ctx context.Context, recipientID primitive.ObjectID, typeFilter string, skip, limit int64) ([]models.Notification, error) {
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, recipientFilter(recipientID, typeFilter), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountByRecipient counts a recipient's notifications under the same
// exclusion predicate as the listing
func (r *MongoNotificationRepository) CountByRecipient(ctx context.Context, recipientID primitive.ObjectID, typeFilter string) (int64, error) {
	return r.collection.CountDocuments(ctx, recipientFilter(recipientID, typeFilter))
}

// DeleteByBlogID removes every notification referencing a blog
func (r *MongoNotificationRepository) DeleteByBlogID(ctx context.Context, blogID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"blog": blogID})
	return err
}
