package posts

import (
	"context"
	"sort"
	"sync"
	"time"

	"socialfeed/pkg/comments"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryPostsRepo keeps posts in process. Callers get copies, so a
// returned post never changes under them.
type MemoryPostsRepo struct {
	mu    *sync.Mutex
	data  map[primitive.ObjectID]*Post
	newID func() primitive.ObjectID
}

func NewMemoryRepo() *MemoryPostsRepo {
	return &MemoryPostsRepo{
		mu:    &sync.Mutex{},
		data:  make(map[primitive.ObjectID]*Post),
		newID: primitive.NewObjectID,
	}
}

// NewMemoryRepoWithIDs hands out ids from gen instead of fresh ObjectIDs.
func NewMemoryRepoWithIDs(gen func() primitive.ObjectID) *MemoryPostsRepo {
	repo := NewMemoryRepo()
	repo.newID = gen
	return repo
}

func (repo *MemoryPostsRepo) GetAll(_ context.Context) ([]*Post, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	res := make([]*Post, 0, len(repo.data))
	for _, p := range repo.data {
		res = append(res, p.clone())
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Date.After(res[j].Date)
	})

	return res, nil
}

func (repo *MemoryPostsRepo) GetByID(_ context.Context, id primitive.ObjectID) (*Post, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	p, ok := repo.data[id]
	if !ok {
		return nil, ErrNotFound
	}

	return p.clone(), nil
}

func (repo *MemoryPostsRepo) Add(_ context.Context, p *Post) (*Post, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	p.ID = repo.newID()
	p.Likes = []Like{}
	p.Comments = []*comments.Comment{}
	p.Version = 0
	if p.Date.IsZero() {
		p.Date = time.Now()
	}

	repo.data[p.ID] = p.clone()
	return p, nil
}

func (repo *MemoryPostsRepo) Delete(_ context.Context, id primitive.ObjectID, userID int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	p, ok := repo.data[id]
	if !ok {
		return ErrNotFound
	}

	if p.User != userID {
		return ErrNotAuthorized
	}

	delete(repo.data, id)
	return nil
}

func (repo *MemoryPostsRepo) Like(_ context.Context, id primitive.ObjectID, userID int64) (*Post, error) {
	return repo.mutate(id, func(p *Post) error {
		return p.AddLike(userID)
	})
}

func (repo *MemoryPostsRepo) Unlike(_ context.Context, id primitive.ObjectID, userID int64) (*Post, error) {
	return repo.mutate(id, func(p *Post) error {
		return p.RemoveLike(userID)
	})
}

func (repo *MemoryPostsRepo) AddComment(_ context.Context, id primitive.ObjectID, c *comments.Comment) (*Post, error) {
	return repo.mutate(id, func(p *Post) error {
		p.AddComment(c)
		return nil
	})
}

func (repo *MemoryPostsRepo) DeleteComment(_ context.Context, id primitive.ObjectID, commentID string) (*Post, error) {
	return repo.mutate(id, func(p *Post) error {
		return p.RemoveComment(commentID)
	})
}

func (repo *MemoryPostsRepo) ParseID(in string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(in)
}

// mutate holds the lock for the whole cycle, so versions never collide here.
func (repo *MemoryPostsRepo) mutate(id primitive.ObjectID, change func(*Post) error) (*Post, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	stored, ok := repo.data[id]
	if !ok {
		return nil, ErrNotFound
	}

	p := stored.clone()
	if err := change(p); err != nil {
		return nil, err
	}

	p.Version++
	repo.data[id] = p
	return p.clone(), nil
}

func (p *Post) clone() *Post {
	res := *p
	res.Likes = append([]Like{}, p.Likes...)
	res.Comments = append([]*comments.Comment{}, p.Comments...)
	return &res
}
