package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/veigarm/pixelfeed/backend/internal/models"
	"github.com/veigarm/pixelfeed/backend/internal/services"
)

// stubProfileRepo holds a fixed set of profiles keyed by id.
type stubProfileRepo struct {
	profiles map[uint]*models.Profile
}

func (s *stubProfileRepo) CreateProfile(_ context.Context, profile *models.Profile) error {
	profile.ID = uint(len(s.profiles) + 1)
	s.profiles[profile.ID] = profile
	return nil
}

func (s *stubProfileRepo) GetProfileByID(_ context.Context, id uint) (*models.Profile, error) {
	if p, ok := s.profiles[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) GetProfileByUserID(_ context.Context, userID uint) (*models.Profile, error) {
	for _, p := range s.profiles {
		if p.UserID == userID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProfileRepo) GetProfileByFirebaseUID(_ context.Context, uid string) (*models.Profile, error) {
	for _, p := range s.profiles {
		if p.FirebaseUID == uid {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// stubPostRepo implements just enough of the post store for handler tests.
type stubPostRepo struct {
	posts map[primitive.ObjectID]*models.Post
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{posts: make(map[primitive.ObjectID]*models.Post)}
}

func (s *stubPostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	s.posts[post.ID] = post
	return nil
}

func (s *stubPostRepo) GetPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	if p, ok := s.posts[id]; ok {
		return p, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (s *stubPostRepo) GetPostsByProfileID(_ context.Context, profileID uint, _, _ int64) ([]models.Post, error) {
	var out []models.Post
	for _, p := range s.posts {
		if p.ProfileID == profileID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *stubPostRepo) UpdatePostFields(_ context.Context, id primitive.ObjectID, _ bson.M) error {
	_, err := s.GetPostByID(context.Background(), id)
	return err
}

func (s *stubPostRepo) PushMedia(_ context.Context, id primitive.ObjectID, files []models.MediaFile) error {
	post, err := s.GetPostByID(context.Background(), id)
	if err != nil {
		return err
	}
	post.Files = append(post.Files, files...)
	return nil
}

func (s *stubPostRepo) PullMedia(_ context.Context, id primitive.ObjectID, url string) error {
	post, err := s.GetPostByID(context.Background(), id)
	if err != nil {
		return err
	}
	kept := post.Files[:0]
	for _, f := range post.Files {
		if f.URL != url {
			kept = append(kept, f)
		}
	}
	post.Files = kept
	return nil
}

func (s *stubPostRepo) SetMediaOrder(_ context.Context, id primitive.ObjectID, files []models.MediaFile) error {
	post, err := s.GetPostByID(context.Background(), id)
	if err != nil {
		return err
	}
	post.Files = files
	return nil
}

func (s *stubPostRepo) PullLike(_ context.Context, id primitive.ObjectID, profileID uint) (bool, error) {
	post, err := s.GetPostByID(context.Background(), id)
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

func (s *stubPostRepo) PushLikeIfAbsent(_ context.Context, id primitive.ObjectID, profileID uint) (bool, error) {
	post, ok := s.posts[id]
	if !ok {
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

func (s *stubPostRepo) PushComment(_ context.Context, id primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	post, err := s.GetPostByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	post.Comments = append(post.Comments, comment)
	return post, nil
}

func (s *stubPostRepo) PushReply(_ context.Context, id, commentID primitive.ObjectID, reply models.Reply) (*models.Post, error) {
	post, err := s.GetPostByID(context.Background(), id)
	if err != nil {
		return nil, err
	}
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			post.Comments[i].Replies = append(post.Comments[i].Replies, reply)
			return post, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func firebaseContext(e *echo.Echo, uid string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("firebaseUID", uid)
	return c, rec
}

// Firebase-only accounts have no local user id, so likes must be keyed on
// the profile id or every Firebase caller collapses into one identity.
func TestToggleLikeDistinguishesFirebaseCallers(t *testing.T) {
	posts := newStubPostRepo()
	profiles := &stubProfileRepo{profiles: map[uint]*models.Profile{
		1: {ID: 1, FirebaseUID: "uid-a", Username: "ana"},
		2: {ID: 2, FirebaseUID: "uid-b", Username: "ben"},
	}}
	handler := NewEngagementHandler(services.NewEngagementService(posts, zap.NewNop()), profiles)

	post := &models.Post{ProfileID: 1, Likes: []models.Like{}}
	require.NoError(t, posts.CreatePost(context.Background(), post))

	e := echo.New()
	for _, uid := range []string{"uid-a", "uid-b"} {
		c, rec := firebaseContext(e, uid)
		c.SetParamNames("id")
		c.SetParamValues(post.ID.Hex())
		require.NoError(t, handler.ToggleLike(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	stored := posts.posts[post.ID]
	assert.Equal(t, []models.Like{{ProfileID: 1}, {ProfileID: 2}}, stored.Likes)

	// The second caller toggling off removes only their own like.
	c, _ := firebaseContext(e, "uid-b")
	c.SetParamNames("id")
	c.SetParamValues(post.ID.Hex())
	require.NoError(t, handler.ToggleLike(c))
	assert.Equal(t, []models.Like{{ProfileID: 1}}, stored.Likes)
}

func TestGetPostsRejectsMalformedPagination(t *testing.T) {
	posts := newStubPostRepo()
	profiles := &stubProfileRepo{profiles: map[uint]*models.Profile{}}
	handler := NewPostHandler(services.NewPostService(posts, profiles, zap.NewNop()), nil, profiles)

	e := echo.New()
	cases := map[string]string{
		"non-numeric limit": "profile_id=1&limit=abc",
		"non-numeric skip":  "profile_id=1&skip=abc",
		"negative limit":    "profile_id=1&limit=-5",
		"negative skip":     "profile_id=1&skip=-1",
	}
	for name, query := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
			c := e.NewContext(req, httptest.NewRecorder())

			err := handler.GetPosts(c)
			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		})
	}

	t.Run("missing skip and limit default", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?profile_id=1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		require.NoError(t, handler.GetPosts(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
