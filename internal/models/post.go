package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxCaptionLength is the hard limit on post captions, in characters.
// Longer captions are rejected, never truncated.
const MaxCaptionLength = 2200

// Post is the root aggregate stored in MongoDB. Likes, comments and replies
// are embedded so every engagement mutation is a single-document update.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProfileID uint               `json:"profile_id" bson:"profile_id"` // owning profile, immutable after creation
	Caption   string             `json:"caption" bson:"caption"`
	Hashtags  []Hashtag          `json:"hashtags" bson:"hashtags"`
	Files     []MediaFile        `json:"files" bson:"files"`
	Likes     []Like             `json:"likes" bson:"likes"`
	Comments  []Comment          `json:"comments" bson:"comments"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Hashtag is a single tag extracted from the caption, leading '#' included.
type Hashtag struct {
	Name string `json:"name" bson:"name"`
}

// MediaFile references one stored media blob. The URL is the blob's object
// name, unique within a post; slice order is the display order.
type MediaFile struct {
	URL string `json:"url" bson:"url"`
}

// Like marks that a profile liked the post. At most one entry per profile.
type Like struct {
	ProfileID uint `json:"profile_id" bson:"profile_id"`
}

// Comment is embedded in a post and owns its replies.
type Comment struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	ProfileID uint               `json:"profile_id" bson:"profile_id"`
	Text      string             `json:"text" bson:"text"`
	Replies   []Reply            `json:"replies" bson:"replies"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Reply is embedded in a comment. Replies are never addressed outside their
// parent comment, so they carry no id of their own.
type Reply struct {
	ProfileID uint      `json:"profile_id" bson:"profile_id"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// PostWithOwner is the read-path shape: a post plus denormalized owner data.
type PostWithOwner struct {
	Post
	Owner Profile `json:"owner"`
}

// CreatePostRequest defines the multipart form fields for creating a post.
// Media files travel alongside as "media" file parts.
type CreatePostRequest struct {
	Caption string `form:"caption" validate:"max=2200"`
}

// UpdatePostRequest defines the request body for a partial post update.
// Only non-nil fields are written.
type UpdatePostRequest struct {
	Caption *string `json:"caption,omitempty" validate:"omitempty,max=2200"`
}

// RepositionMediaRequest moves the media entry matching URL to index MoveTo.
type RepositionMediaRequest struct {
	URL    string `json:"url" validate:"required"`
	MoveTo int    `json:"move_to" validate:"min=0"`
}

// RemoveMediaRequest names the media entry to detach from a post.
type RemoveMediaRequest struct {
	URL string `json:"url" validate:"required"`
}

// AddCommentRequest defines the request body for commenting on a post.
type AddCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2200"`
}

// AddReplyRequest defines the request body for replying to a comment.
type AddReplyRequest struct {
	Text string `json:"text" validate:"required,min=1,max=2200"`
}
