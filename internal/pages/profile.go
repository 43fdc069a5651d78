package pages

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/LostNSeeker/AlumnConnect/internal/domain"
)

// ProfileFetcher is the API slice for the read-only profile view.
type ProfileFetcher interface {
	GetUserProfile(ctx context.Context, userID int64) (*domain.Profile, error)
}

// Profile is the read-only profile page behind /users/{id}.
type Profile struct {
	ctx     context.Context
	fetcher ProfileFetcher
	post    func(Event)
	log     *logrus.Logger

	authenticated bool

	loading  bool
	notFound bool
	profile  *domain.Profile
}

type profileLoaded struct {
	userID  int64
	profile *domain.Profile
	err     error
}

func (profileLoaded) isEvent() {}

func NewProfile(ctx context.Context, fetcher ProfileFetcher, authenticated bool, post func(Event), log *logrus.Logger) *Profile {
	return &Profile{
		ctx:           ctx,
		fetcher:       fetcher,
		post:          post,
		log:           ensureLogger(log),
		authenticated: authenticated,
	}
}

// Load fetches the profile for userID; without a session nothing happens.
func (p *Profile) Load(userID int64) {
	if !p.authenticated || userID == 0 {
		return
	}
	p.loading = true
	p.notFound = false
	p.profile = nil
	go func() {
		profile, err := p.fetcher.GetUserProfile(p.ctx, userID)
		p.post(profileLoaded{userID: userID, profile: profile, err: err})
	}()
}

func (p *Profile) Authenticated() bool { return p.authenticated }

func (p *Profile) Loading() bool { return p.loading }

// NotFound is the explicit missing-user state, distinct from a transport
// failure.
func (p *Profile) NotFound() bool { return p.notFound }

func (p *Profile) Profile() *domain.Profile { return p.profile }

// Apply folds one event into the model.
func (p *Profile) Apply(ev Event) {
	e, ok := ev.(profileLoaded)
	if !ok {
		return
	}
	p.loading = false
	if e.err != nil {
		if errors.Is(e.err, domain.ErrNotFound) {
			p.notFound = true
			return
		}
		p.log.WithError(e.err).WithField("user_id", e.userID).Warn("loading profile failed")
		return
	}
	p.profile = e.profile
}
