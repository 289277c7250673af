package services

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/veigarm/pixelfeed/backend/internal/apperrors"
	"github.com/veigarm/pixelfeed/backend/internal/media"
	"github.com/veigarm/pixelfeed/backend/internal/models"
	"github.com/veigarm/pixelfeed/backend/internal/repositories"
	"github.com/veigarm/pixelfeed/backend/internal/storage"
)

// mediaPrefix is where finished media blobs live in the bucket; staged
// uploads sit under stagingPrefix until they are derived.
const (
	mediaPrefix   = "media/"
	stagingPrefix = "staging/"
)

// Upload is one file received from the client, not yet stored.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// MediaService manages a post's ordered media list: ingestion, removal and
// repositioning. Callers must pass posts through the authorization gate
// before mutating them here.
type MediaService struct {
	posts repositories.PostRepository
	blobs storage.BlobStore
	log   *zap.Logger
}

// NewMediaService creates a new MediaService
func NewMediaService(posts repositories.PostRepository, blobs storage.BlobStore, log *zap.Logger) *MediaService {
	return &MediaService{posts: posts, blobs: blobs, log: log}
}

// Ingest normalizes and stores each upload, returning the media entries in
// upload order. Images are staged, re-encoded into their canonical format and
// the staging blob removed; videos are stored as-is.
func (s *MediaService) Ingest(ctx context.Context, uploads []Upload) ([]models.MediaFile, error) {
	files := make([]models.MediaFile, 0, len(uploads))
	for _, up := range uploads {
		name, err := s.ingestOne(ctx, up)
		if err != nil {
			return nil, err
		}
		files = append(files, models.MediaFile{URL: name})
	}
	return files, nil
}

func (s *MediaService) ingestOne(ctx context.Context, up Upload) (string, error) {
	spec, err := media.SpecFor(up.ContentType)
	if err != nil {
		return "", apperrors.New(apperrors.KindValidation, err.Error())
	}

	staged := stagingPrefix + uuid.NewString()
	if err := s.blobs.Write(ctx, staged, up.Reader, up.Size, up.ContentType); err != nil {
		return "", err
	}

	name := uuid.NewString() + "." + spec.Extension()
	if err := s.blobs.WriteDerived(ctx, staged, mediaPrefix+name, spec); err != nil {
		return "", err
	}

	if err := s.blobs.Delete(ctx, staged); err != nil {
		// The staged blob is orphaned, not the post; don't fail the request.
		s.log.Warn("staged blob cleanup failed", zap.String("object", staged), zap.Error(err))
	}
	return name, nil
}

// Append ingests the uploads and pushes the resulting entries onto the end
// of the post's media list.
func (s *MediaService) Append(ctx context.Context, post *models.Post, uploads []Upload) ([]models.MediaFile, error) {
	files, err := s.Ingest(ctx, uploads)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return post.Files, nil
	}

	if err := s.posts.PushMedia(ctx, post.ID, files); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.PostNotFound()
		}
		return nil, err
	}
	return append(post.Files, files...), nil
}

// Remove detaches the media entry matching url from the post and then
// deletes the underlying blob if it exists. Removal is idempotent: an absent
// url is a successful no-op. A blob-store fault after the document write is
// logged, never propagated.
func (s *MediaService) Remove(ctx context.Context, post *models.Post, url string) error {
	if err := s.posts.PullMedia(ctx, post.ID, url); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return apperrors.PostNotFound()
		}
		return err
	}

	object := mediaPrefix + url
	ok, err := s.blobs.Exists(ctx, object)
	if err != nil {
		s.log.Warn("blob existence check failed", zap.String("object", object), zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	if err := s.blobs.Delete(ctx, object); err != nil {
		s.log.Warn("blob deletion failed", zap.String("object", object), zap.Error(err))
	}
	return nil
}

// Reposition moves the entry matching url to index moveTo and persists the
// new order as one array write. An absent url leaves the list unchanged.
func (s *MediaService) Reposition(ctx context.Context, post *models.Post, url string, moveTo int) ([]models.MediaFile, error) {
	reordered, found := reorderMedia(post.Files, url, moveTo)
	if !found {
		return post.Files, nil
	}

	if err := s.posts.SetMediaOrder(ctx, post.ID, reordered); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.PostNotFound()
		}
		return nil, err
	}
	return reordered, nil
}

// reorderMedia returns files with the entry matching url moved so that it
// ends up at index moveTo, the rest shifting around it. Out-of-range targets
// clamp to the ends. Reports whether url was found.
func reorderMedia(files []models.MediaFile, url string, moveTo int) ([]models.MediaFile, bool) {
	idx := -1
	for i, f := range files {
		if f.URL == url {
			idx = i
			break
		}
	}
	if idx == -1 {
		return files, false
	}

	moved := files[idx]
	rest := make([]models.MediaFile, 0, len(files))
	rest = append(rest, files[:idx]...)
	rest = append(rest, files[idx+1:]...)

	if moveTo < 0 {
		moveTo = 0
	}
	if moveTo > len(rest) {
		moveTo = len(rest)
	}

	out := make([]models.MediaFile, 0, len(files))
	out = append(out, rest[:moveTo]...)
	out = append(out, moved)
	out = append(out, rest[moveTo:]...)
	return out, true
}
