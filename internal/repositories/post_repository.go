package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/veigarm/pixelfeed/backend/internal/models"
)

// PostRepository defines the interface for post document operations. Every
// mutation is a single-document update the store applies atomically, which is
// what keeps concurrent likes, comments and media edits from losing writes.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetPostsByProfileID(ctx context.Context, profileID uint, skip, limit int64) ([]models.Post, error)
	UpdatePostFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error
	PushMedia(ctx context.Context, id primitive.ObjectID, files []models.MediaFile) error
	PullMedia(ctx context.Context, id primitive.ObjectID, url string) error
	SetMediaOrder(ctx context.Context, id primitive.ObjectID, files []models.MediaFile) error
	PullLike(ctx context.Context, id primitive.ObjectID, profileID uint) (bool, error)
	PushLikeIfAbsent(ctx context.Context, id primitive.ObjectID, profileID uint) (bool, error)
	PushComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (*models.Post, error)
	PushReply(ctx context.Context, id, commentID primitive.ObjectID, reply models.Reply) (*models.Post, error)
}

// MongoPostRepository implements PostRepository for MongoDB. Absent documents
// surface as mongo.ErrNoDocuments; the service layer translates them into
// domain errors.
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost inserts a new post document.
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID.
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPostsByProfileID retrieves a profile's posts, newest first.
func (r *MongoPostRepository) GetPostsByProfileID(ctx context.Context, profileID uint, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"profile_id": profileID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// UpdatePostFields applies a partial $set; fields not present are untouched.
func (r *MongoPostRepository) UpdatePostFields(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	fields["updated_at"] = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// PushMedia appends media entries to the end of the files array.
func (r *MongoPostRepository) PushMedia(ctx context.Context, id primitive.ObjectID, files []models.MediaFile) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$push": bson.M{"files": bson.M{"$each": files}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// PullMedia removes every files entry matching url. Removing an absent url
// is a successful no-op.
func (r *MongoPostRepository) PullMedia(ctx context.Context, id primitive.ObjectID, url string) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"files": bson.M{"url": url}},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetMediaOrder replaces the files array with the given order in one write.
func (r *MongoPostRepository) SetMediaOrder(ctx context.Context, id primitive.ObjectID, files []models.MediaFile) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"files": files, "updated_at": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// PullLike removes the profile's like if present and reports whether it did.
func (r *MongoPostRepository) PullLike(ctx context.Context, id primitive.ObjectID, profileID uint) (bool, error) {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"likes": bson.M{"profile_id": profileID}},
	})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, mongo.ErrNoDocuments
	}
	return res.ModifiedCount > 0, nil
}

// PushLikeIfAbsent adds the profile's like unless one is already there. The
// membership check lives in the update filter, so two concurrent calls for
// the same profile can never produce a duplicate entry.
func (r *MongoPostRepository) PushLikeIfAbsent(ctx context.Context, id primitive.ObjectID, profileID uint) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "likes.profile_id": bson.M{"$ne": profileID}},
		bson.M{"$push": bson.M{"likes": models.Like{ProfileID: profileID}}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// PushComment appends a comment and returns the updated post.
func (r *MongoPostRepository) PushComment(ctx context.Context, id primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"comments": comment}},
		opts,
	).Decode(&post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// PushReply appends a reply to the matching comment via the positional
// operator and returns the updated post. The filter names both the post and
// the comment, so a reply can never land on a sibling comment.
func (r *MongoPostRepository) PushReply(ctx context.Context, id, commentID primitive.ObjectID, reply models.Reply) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "comments._id": commentID},
		bson.M{"$push": bson.M{"comments.$.replies": reply}},
		opts,
	).Decode(&post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}
