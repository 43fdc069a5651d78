package pages

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/LostNSeeker/AlumnConnect/internal/domain"
)

// BlogFetcher is the API slice for the blog feed.
type BlogFetcher interface {
	ListBlogPosts(ctx context.Context) ([]domain.BlogPost, error)
	LikeBlogPost(ctx context.Context, postID int64) error
}

// Blog lists posts and runs the optimistic like toggle: the tentative
// state change is applied immediately and the prior value restored
// directly when the server says no, no re-fetch involved.
type Blog struct {
	ctx     context.Context
	fetcher BlogFetcher
	post    func(Event)
	log     *logrus.Logger

	authenticated bool

	loading bool
	posts   []domain.BlogPost

	// prior like state per post id while its toggle is in flight.
	pending map[int64]domain.BlogPost
}

type blogLoaded struct {
	posts []domain.BlogPost
	err   error
}

type likeSettled struct {
	postID int64
	err    error
}

func (blogLoaded) isEvent()  {}
func (likeSettled) isEvent() {}

func NewBlog(ctx context.Context, fetcher BlogFetcher, authenticated bool, post func(Event), log *logrus.Logger) *Blog {
	return &Blog{
		ctx:           ctx,
		fetcher:       fetcher,
		post:          post,
		log:           ensureLogger(log),
		authenticated: authenticated,
		pending:       make(map[int64]domain.BlogPost),
	}
}

// Load fetches the public blog feed.
func (b *Blog) Load() {
	b.loading = true
	go func() {
		posts, err := b.fetcher.ListBlogPosts(b.ctx)
		b.post(blogLoaded{posts: posts, err: err})
	}()
}

func (b *Blog) Loading() bool { return b.loading }

func (b *Blog) Posts() []domain.BlogPost { return b.posts }

// Recent returns at most n posts, the slice the connect page embeds.
func (b *Blog) Recent(n int) []domain.BlogPost {
	if len(b.posts) <= n {
		return b.posts
	}
	return b.posts[:n]
}

func (b *Blog) find(postID int64) *domain.BlogPost {
	for i := range b.posts {
		if b.posts[i].ID == postID {
			return &b.posts[i]
		}
	}
	return nil
}

// ToggleLike flips a post's like optimistically and confirms with the
// server. Requires a session; a toggle already in flight for the same
// post is rejected. Returns whether a request was issued.
func (b *Blog) ToggleLike(postID int64) bool {
	if !b.authenticated {
		return false
	}
	if _, inFlight := b.pending[postID]; inFlight {
		return false
	}
	post := b.find(postID)
	if post == nil {
		return false
	}

	b.pending[postID] = *post
	if post.IsLiked {
		post.IsLiked = false
		post.LikesCount--
	} else {
		post.IsLiked = true
		post.LikesCount++
	}

	go func() {
		err := b.fetcher.LikeBlogPost(b.ctx, postID)
		b.post(likeSettled{postID: postID, err: err})
	}()
	return true
}

// Apply folds one event into the model.
func (b *Blog) Apply(ev Event) {
	switch e := ev.(type) {
	case blogLoaded:
		b.loading = false
		if e.err != nil {
			b.log.WithError(e.err).Warn("loading blog posts failed")
			b.posts = nil
			return
		}
		b.posts = e.posts
	case likeSettled:
		prior, ok := b.pending[e.postID]
		delete(b.pending, e.postID)
		if e.err == nil || !ok {
			return
		}
		// Rejected: put the prior value back.
		b.log.WithError(e.err).WithField("post_id", e.postID).Warn("like toggle rejected")
		if post := b.find(e.postID); post != nil {
			post.IsLiked = prior.IsLiked
			post.LikesCount = prior.LikesCount
		}
	}
}
