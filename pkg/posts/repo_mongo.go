package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialfeed/pkg/comments"
	"socialfeed/pkg/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PostsRepoMongo struct {
	collection common.CollectionHelper
}

func NewPostsRepoMongo(db *mongo.Database, collection string) *PostsRepoMongo {
	return &PostsRepoMongo{collection: common.NewMongoCollection(db, collection)}
}

// GetAll returns every post, newest first. No posts is an empty slice.
func (r *PostsRepoMongo) GetAll(ctx context.Context) ([]*Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}

	defer cur.Close(ctx)

	var posts []*Post
	err = cur.All(ctx, &posts)
	if err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}

	if posts == nil {
		posts = []*Post{}
	}

	return posts, nil
}

func (r *PostsRepoMongo) GetByID(ctx context.Context, id primitive.ObjectID) (*Post, error) {
	post := &Post{}
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post %s: %w", id.Hex(), err)
	}

	return post, nil
}

func (r *PostsRepoMongo) Add(ctx context.Context, p *Post) (*Post, error) {
	p.ID = primitive.NewObjectID()
	p.Likes = []Like{}
	p.Comments = []*comments.Comment{}
	p.Version = 0
	if p.Date.IsZero() {
		p.Date = time.Now()
	}

	res, err := r.collection.InsertOne(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	if id, ok := res.GetInsertedID().(primitive.ObjectID); ok {
		p.ID = id
	}

	return p, nil
}

// Delete removes the post only when userID owns it.
func (r *PostsRepoMongo) Delete(ctx context.Context, id primitive.ObjectID, userID int64) error {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if p.User != userID {
		return ErrNotAuthorized
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete post %s: %w", id.Hex(), err)
	}

	if res.GetDeletedCount() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *PostsRepoMongo) Like(ctx context.Context, id primitive.ObjectID, userID int64) (*Post, error) {
	return r.mutate(ctx, id, func(p *Post) error {
		return p.AddLike(userID)
	})
}

func (r *PostsRepoMongo) Unlike(ctx context.Context, id primitive.ObjectID, userID int64) (*Post, error) {
	return r.mutate(ctx, id, func(p *Post) error {
		return p.RemoveLike(userID)
	})
}

func (r *PostsRepoMongo) AddComment(ctx context.Context, id primitive.ObjectID, c *comments.Comment) (*Post, error) {
	return r.mutate(ctx, id, func(p *Post) error {
		p.AddComment(c)
		return nil
	})
}

func (r *PostsRepoMongo) DeleteComment(ctx context.Context, id primitive.ObjectID, commentID string) (*Post, error) {
	return r.mutate(ctx, id, func(p *Post) error {
		return p.RemoveComment(commentID)
	})
}

func (r *PostsRepoMongo) ParseID(in string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(in)
}

// mutate is a fetch, change, save cycle. The save only matches the version
// that was read, so a concurrent writer turns into ErrConflict instead of a
// lost update, and a concurrent delete into ErrNotFound.
func (r *PostsRepoMongo) mutate(ctx context.Context, id primitive.ObjectID, change func(*Post) error) (*Post, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err = change(p); err != nil {
		return nil, err
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": p.ID, "version": p.Version},
		bson.D{
			{Key: "$set", Value: bson.D{{Key: "likes", Value: p.Likes}, {Key: "comments", Value: p.Comments}}},
			{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
		})
	if err != nil {
		return nil, fmt.Errorf("update post %s: %w", id.Hex(), err)
	}

	if res.GetModifiedCount() == 0 {
		// the post may be gone rather than changed
		if _, err = r.GetByID(ctx, id); errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrConflict
	}

	p.Version++
	return p, nil
}
