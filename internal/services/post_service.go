// Package services holds the post aggregate's mutation logic. Handlers stay
// thin; everything that decides what a valid post looks like lives here.
package services

import (
	"context"
	"errors"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/veigarm/pixelfeed/backend/internal/apperrors"
	"github.com/veigarm/pixelfeed/backend/internal/hashtag"
	"github.com/veigarm/pixelfeed/backend/internal/models"
	"github.com/veigarm/pixelfeed/backend/internal/repositories"
)

// PostService owns post creation, partial updates, the read path and the
// authorization gate in front of owner-only mutations.
type PostService struct {
	posts    repositories.PostRepository
	profiles repositories.ProfileRepository
	log      *zap.Logger
}

// NewPostService creates a new PostService
func NewPostService(posts repositories.PostRepository, profiles repositories.ProfileRepository, log *zap.Logger) *PostService {
	return &PostService{posts: posts, profiles: profiles, log: log}
}

// parsePostID is the well-formedness check every identifier goes through
// before it reaches the store.
func parsePostID(id string) (primitive.ObjectID, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperrors.InvalidID(id)
	}
	return objID, nil
}

func validateCaption(caption string) error {
	if utf8.RuneCountInString(caption) > models.MaxCaptionLength {
		return apperrors.CaptionTooLong()
	}
	return nil
}

// Create validates the caption, derives its hashtags and persists a new post
// owned by ownerProfileID with the given media batch.
func (s *PostService) Create(ctx context.Context, ownerProfileID uint, caption string, mediaBatch []models.MediaFile) (*models.Post, error) {
	if err := validateCaption(caption); err != nil {
		return nil, err
	}
	if mediaBatch == nil {
		mediaBatch = []models.MediaFile{}
	}

	post := &models.Post{
		ProfileID: ownerProfileID,
		Caption:   caption,
		Hashtags:  hashtag.Extract(caption),
		Files:     mediaBatch,
		Likes:     []models.Like{},
		Comments:  []models.Comment{},
	}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	s.log.Info("post created",
		zap.String("post_id", post.ID.Hex()),
		zap.Uint("profile_id", ownerProfileID),
		zap.Int("media", len(mediaBatch)),
	)
	return post, nil
}

// Update applies a partial update. Only the fields present in the request are
// written; a caption change re-runs hashtag extraction.
func (s *PostService) Update(ctx context.Context, postID string, req models.UpdatePostRequest) error {
	objID, err := parsePostID(postID)
	if err != nil {
		return err
	}

	fields := bson.M{}
	if req.Caption != nil {
		if err := validateCaption(*req.Caption); err != nil {
			return err
		}
		fields["caption"] = *req.Caption
		fields["hashtags"] = hashtag.Extract(*req.Caption)
	}
	if len(fields) == 0 {
		return nil
	}

	if err := s.posts.UpdatePostFields(ctx, objID, fields); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.PostNotFound()
		}
		return err
	}
	return nil
}

// FindEditable is the authorization gate: it resolves the post and returns it
// only when requestingProfileID owns it. Every caption or media mutation goes
// through here first.
func (s *PostService) FindEditable(ctx context.Context, postID string, requestingProfileID uint) (*models.Post, error) {
	objID, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.GetPostByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.PostNotFound()
		}
		return nil, err
	}

	if post.ProfileID != requestingProfileID {
		return nil, apperrors.NotPostOwner()
	}
	return post, nil
}

// GetWithOwnerProfile resolves a post together with its owner's profile for
// display. This is the read path; any caller may use it.
func (s *PostService) GetWithOwnerProfile(ctx context.Context, postID string) (*models.PostWithOwner, error) {
	objID, err := parsePostID(postID)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.GetPostByID(ctx, objID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.PostNotFound()
		}
		return nil, err
	}

	result := &models.PostWithOwner{Post: *post}
	owner, err := s.profiles.GetProfileByID(ctx, post.ProfileID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// Post outlived its profile row; serve the post anyway.
		s.log.Warn("post owner profile missing",
			zap.String("post_id", postID),
			zap.Uint("profile_id", post.ProfileID),
		)
	} else {
		result.Owner = *owner
	}
	return result, nil
}

// GetByProfile lists a profile's posts, newest first.
func (s *PostService) GetByProfile(ctx context.Context, profileID uint, skip, limit int64) ([]models.Post, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.posts.GetPostsByProfileID(ctx, profileID, skip, limit)
}
