package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/veigarm/pixelfeed/backend/internal/media"
	"github.com/veigarm/pixelfeed/backend/internal/models"
)

// fakePostRepository is an in-memory stand-in for the Mongo repository. Its
// methods mirror the store's semantics: absent documents surface as
// mongo.ErrNoDocuments and every mutation touches exactly one post.
type fakePostRepository struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post
}

func newFakePostRepository() *fakePostRepository {
	return &fakePostRepository{posts: make(map[primitive.ObjectID]*models.Post)}
}

func (f *fakePostRepository) get(id primitive.ObjectID) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return post, nil
}

func clonePost(p *models.Post) *models.Post {
	c := *p
	c.Hashtags = append([]models.Hashtag(nil), p.Hashtags...)
	c.Files = append([]models.MediaFile(nil), p.Files...)
	c.Likes = append([]models.Like(nil), p.Likes...)
	c.Comments = make([]models.Comment, len(p.Comments))
	for i, cm := range p.Comments {
		c.Comments[i] = cm
		c.Comments[i].Replies = append([]models.Reply(nil), cm.Replies...)
	}
	return &c
}

func (f *fakePostRepository) CreatePost(_ context.Context, post *models.Post) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post.ID = primitive.NewObjectID()
	f.posts[post.ID] = clonePost(post)
	return nil
}

func (f *fakePostRepository) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(id)
	if err != nil {
		return nil, err
	}
	return clonePost(post), nil
}

func (f *fakePostRepository) GetPostsByProfileID(_ context.Context, profileID uint, skip, limit int64) ([]models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var posts []models.Post
	for _, p := range f.posts {
		if p.ProfileID == profileID {
			posts = append(posts, *clonePost(p))
		}
	}
	return posts, nil
}

func (f *fakePostRepository) UpdatePostFields(_ context.Context, id primitive.ObjectID, fields bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(id)
	if err != nil {
		return err
	}
	if caption, ok := fields["caption"].(string); ok {
		post.Caption = caption
	}
	if tags, ok := fields["hashtags"].([]models.Hashtag); ok {
		post.Hashtags = tags
	}
	return nil
}

func (f *fakePostRepository) PushMedia(_ context.Context, id primitive.ObjectID, files []models.MediaFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(id)
	if err != nil {
		return err
	}
	post.Files = append(post.Files, files...)
	return nil
}

func (f *fakePostRepository) PullMedia(_ context.Context, id primitive.ObjectID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(id)
	if err != nil {
		return err
	}
	kept := post.Files[:0]
	for _, file := range post.Files {
		if file.URL != url {
			kept = append(kept, file)
		}
	}
	post.Files = kept
	return nil
}

func (f *fakePostRepository) SetMediaOrder(_ context.Context, id primitive.ObjectID, files []models.MediaFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(id)
	if err != nil {
		return err
	}
	post.Files = append([]models.MediaFile(nil), files...)
	return nil
}

func (f *fakePostRepository) PullLike(_ context.Context, id primitive.ObjectID, profileID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(id)
	if err != nil {
		return false, err
	}
	kept := post.Likes[:0]
	removed := false
	for _, like := range post.Likes {
		if like.ProfileID == profileID {
			removed = true
			continue
		}
		kept = append(kept, like)
	}
	post.Likes = kept
	return removed, nil
}

func (f *fakePostRepository) PushLikeIfAbsent(_ context.Context, id primitive.ObjectID, profileID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok {
		// The real update filters on both _id and like membership, so an
		// absent post is an unmodified no-op, not an error.
		return false, nil
	}
	for _, like := range post.Likes {
		if like.ProfileID == profileID {
			return false, nil
		}
	}
	post.Likes = append(post.Likes, models.Like{ProfileID: profileID})
	return true, nil
}

func (f *fakePostRepository) PushComment(_ context.Context, id primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(id)
	if err != nil {
		return nil, err
	}
	post.Comments = append(post.Comments, comment)
	return clonePost(post), nil
}

func (f *fakePostRepository) PushReply(_ context.Context, id, commentID primitive.ObjectID, reply models.Reply) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, err := f.get(id)
	if err != nil {
		return nil, err
	}
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			post.Comments[i].Replies = append(post.Comments[i].Replies, reply)
			return clonePost(post), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

// fakeProfileRepository holds profiles keyed by ID.
type fakeProfileRepository struct {
	profiles map[uint]*models.Profile
}

func newFakeProfileRepository() *fakeProfileRepository {
	return &fakeProfileRepository{profiles: make(map[uint]*models.Profile)}
}

func (f *fakeProfileRepository) CreateProfile(_ context.Context, profile *models.Profile) error {
	f.profiles[profile.ID] = profile
	return nil
}

func (f *fakeProfileRepository) GetProfileByID(_ context.Context, id uint) (*models.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return profile, nil
}

func (f *fakeProfileRepository) GetProfileByUserID(_ context.Context, userID uint) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProfileRepository) GetProfileByFirebaseUID(_ context.Context, uid string) (*models.Profile, error) {
	for _, p := range f.profiles {
		if p.FirebaseUID == uid {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// fakeBlobStore keeps blobs in memory and records deletions.
type fakeBlobStore struct {
	objects   map[string][]byte
	deleted   []string
	deleteErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (f *fakeBlobStore) Write(_ context.Context, objectName string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[objectName] = data
	return nil
}

func (f *fakeBlobStore) WriteDerived(_ context.Context, srcName, dstName string, spec media.TransformSpec) error {
	data, ok := f.objects[srcName]
	if !ok {
		return errors.New("staged blob missing: " + srcName)
	}
	derived, _, err := media.NewTransformer().Apply(bytes.NewReader(data), spec)
	if err != nil {
		return err
	}
	out, err := io.ReadAll(derived)
	if err != nil {
		return err
	}
	f.objects[dstName] = out
	return nil
}

func (f *fakeBlobStore) Exists(_ context.Context, objectName string) (bool, error) {
	_, ok := f.objects[objectName]
	return ok, nil
}

func (f *fakeBlobStore) Delete(_ context.Context, objectName string) error {
	f.deleted = append(f.deleted, objectName)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, objectName)
	return nil
}
