package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/blogspace/server/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrUserNotFound is returned when no user matches the lookup
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken is returned when the unique email index rejects an insert
var ErrEmailTaken = errors.New("email already registered")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	UpdateProfileImg(ctx context.Context, id primitive.ObjectID, url string) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, username, bio string, links models.SocialLinks) (*models.User, error)
	AttachBlog(ctx context.Context, id, blogID primitive.ObjectID, postInc int64) error
	DetachBlog(ctx context.Context, id, blogID primitive.ObjectID, postInc int64) error
	IncrementReadCount(ctx context.Context, username string, inc int64) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// EnsureIndexes creates the unique indexes the signup path relies on
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "personal_info.email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "personal_info.username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

// CreateUser inserts a new user document
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.JoinedAt = time.Now()
	if user.Blogs == nil {
		user.Blogs = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrEmailTaken
	}
	return err
}

// GetUserByID retrieves a user by object id
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetUserByEmail retrieves a user by email
func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"personal_info.email": email})
}

// GetUserByUsername retrieves a user by username
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"personal_info.username": username})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UsernameExists reports whether a username is already taken
func (r *MongoUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"personal_info.username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SearchUsers finds users whose fullname or username matches the query,
// case-insensitively
func (r *MongoUserRepository) SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"personal_info.fullname": bson.M{"$regex": query, "$options": "i"}},
		bson.M{"personal_info.username": bson.M{"$regex": query, "$options": "i"}},
	}}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdatePassword replaces the stored credential hash
func (r *MongoUserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"personal_info.password": hash}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateProfileImg sets a new avatar URL and returns the updated user
func (r *MongoUserRepository) UpdateProfileImg(ctx context.Context, id primitive.ObjectID, url string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"personal_info.profile_img": url}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateProfile sets username, bio and social links, returning the document
// as it was before the update
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, username, bio string, links models.SocialLinks) (*models.User, error) {
	var user models.User
	err := r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"personal_info.username": username,
			"personal_info.bio":      bio,
			"social_links":           links,
		}},
	).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// AttachBlog pushes a blog reference and bumps total_posts by postInc
func (r *MongoUserRepository) AttachBlog(ctx context.Context, id, blogID primitive.ObjectID, postInc int64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc":  bson.M{"account_info.total_posts": postInc},
		"$push": bson.M{"blogs": blogID},
	})
	return err
}

// DetachBlog pulls a blog reference and bumps total_posts by postInc
func (r *MongoUserRepository) DetachBlog(ctx context.Context, id, blogID primitive.ObjectID, postInc int64) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc":  bson.M{"account_info.total_posts": postInc},
		"$pull": bson.M{"blogs": blogID},
	})
	return err
}

// IncrementReadCount bumps the author's aggregate read counter
func (r *MongoUserRepository) IncrementReadCount(ctx context.Context, username string, inc int64) error {
	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"personal_info.username": username},
		bson.M{"$inc": bson.M{"account_info.total_reads": inc}},
	)
	return err
}
