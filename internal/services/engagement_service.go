package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/veigarm/pixelfeed/backend/internal/apperrors"
	"github.com/veigarm/pixelfeed/backend/internal/models"
	"github.com/veigarm/pixelfeed/backend/internal/repositories"
)

// EngagementService handles likes, comments and replies. These paths are
// open to any authenticated user; only the post must exist.
type EngagementService struct {
	posts repositories.PostRepository
	log   *zap.Logger
}

// NewEngagementService creates a new EngagementService
func NewEngagementService(posts repositories.PostRepository, log *zap.Logger) *EngagementService {
	return &EngagementService{posts: posts, log: log}
}

// ToggleLike flips the profile's like on the post and reports the new state:
// true when the post ends up liked, false when the like was removed. Both
// legs are filtered single-document updates, so concurrent toggles cannot
// produce a duplicate membership; the last applied request wins.
func (s *EngagementService) ToggleLike(ctx context.Context, postID string, profileID uint) (bool, error) {
	objID, err := parsePostID(postID)
	if err != nil {
		return false, err
	}

	removed, err := s.posts.PullLike(ctx, objID, profileID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, apperrors.PostNotFound()
		}
		return false, err
	}
	if removed {
		return false, nil
	}

	// Nothing to remove, so add. If a concurrent duplicate request slipped
	// the like in between the two updates, membership is already what the
	// caller asked for.
	if _, err := s.posts.PushLikeIfAbsent(ctx, objID, profileID); err != nil {
		return false, err
	}
	return true, nil
}

// AddComment appends a new comment with an empty reply list and returns the
// updated post.
func (s *EngagementService) AddComment(ctx context.Context, postID string, profileID uint, text string) (*models.Post, error) {
	objID, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		ProfileID: profileID,
		Text:      text,
		Replies:   []models.Reply{},
		CreatedAt: time.Now(),
	}

	post, err := s.posts.PushComment(ctx, objID, comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.PostNotFound()
		}
		return nil, err
	}
	return post, nil
}

// AddReply appends a reply to the comment matching commentID within the post
// and returns the updated post. NotFound covers both a missing post and a
// missing comment; missing which one is not observable from a single
// filtered update.
func (s *EngagementService) AddReply(ctx context.Context, postID, commentID string, profileID uint, text string) (*models.Post, error) {
	objID, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}
	commentObjID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		return nil, apperrors.InvalidID(commentID)
	}

	reply := models.Reply{
		ProfileID: profileID,
		Text:      text,
		CreatedAt: time.Now(),
	}

	post, err := s.posts.PushReply(ctx, objID, commentObjID, reply)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.CommentNotFound()
		}
		return nil, err
	}
	return post, nil
}
