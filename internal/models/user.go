package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PersonalInfo holds the identity and public profile fields of a user.
type PersonalInfo struct {
	Fullname   string `json:"fullname" bson:"fullname"`
	Email      string `json:"email" bson:"email"`
	Password   string `json:"-" bson:"password"` // Store hashed password, ignore for JSON serialization
	Username   string `json:"username" bson:"username"`
	Bio        string `json:"bio" bson:"bio"`
	ProfileImg string `json:"profile_img" bson:"profile_img"`
}

// SocialLinks holds optional links shown on a user's profile page.
type SocialLinks struct {
	Youtube   string `json:"youtube" bson:"youtube"`
	Instagram string `json:"instagram" bson:"instagram"`
	Facebook  string `json:"facebook" bson:"facebook"`
	Twitter   string `json:"twitter" bson:"twitter"`
	Github    string `json:"github" bson:"github"`
	Website   string `json:"website" bson:"website"`
}

// AccountInfo holds derived aggregate counters stored on the user document.
type AccountInfo struct {
	TotalPosts int64 `json:"total_posts" bson:"total_posts"`
	TotalReads int64 `json:"total_reads" bson:"total_reads"`
}

// User represents a platform user stored in MongoDB
type User struct {
	ID           primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	PersonalInfo PersonalInfo         `json:"personal_info" bson:"personal_info"`
	SocialLinks  SocialLinks          `json:"social_links" bson:"social_links"`
	AccountInfo  AccountInfo          `json:"account_info" bson:"account_info"`
	Blogs        []primitive.ObjectID `json:"blogs,omitempty" bson:"blogs"`
	JoinedAt     time.Time            `json:"joinedAt" bson:"joinedAt"`
}

// UserCompact is the public author/actor shape embedded in list responses
type UserCompact struct {
	Fullname   string `json:"fullname"`
	Username   string `json:"username"`
	ProfileImg string `json:"profile_img"`
}

// ToCompact converts a User to its public compact form
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		Fullname:   u.PersonalInfo.Fullname,
		Username:   u.PersonalInfo.Username,
		ProfileImg: u.PersonalInfo.ProfileImg,
	}
}

// SignupRequest defines the request body for user registration
type SignupRequest struct {
	Fullname string `json:"fullname" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SigninRequest defines the request body for user login
type SigninRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SearchUserRequest defines the request body for profile search
type SearchUserRequest struct {
	Query string `json:"query" validate:"required"`
}

// GetUserRequest defines the request body for fetching a public profile
type GetUserRequest struct {
	Username string `json:"username" validate:"required"`
}

// ChangePasswordRequest defines the request body for rotating a password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
}

// ChangeProfileImgRequest defines the request body for swapping the avatar
type ChangeProfileImgRequest struct {
	ProfileImgURL string `json:"profileImgUrl" validate:"required,url"`
}

// UpdateProfileRequest defines the request body for profile updates
type UpdateProfileRequest struct {
	Username    string      `json:"username" validate:"required"`
	Bio         string      `json:"bio" validate:"max=200"`
	SocialLinks SocialLinks `json:"social_links"`
}

// AuthPayload is the profile-plus-token shape returned by signup/signin
type AuthPayload struct {
	AccessToken string `json:"access_token"`
	ProfileImg  string `json:"profile_img"`
	Username    string `json:"username"`
	Fullname    string `json:"fullname"`
	Email       string `json:"email"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}
