package pages

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/LostNSeeker/AlumnConnect/internal/domain"
	"github.com/LostNSeeker/AlumnConnect/internal/nav"
)

// AlumniFetcher is the API slice for the mentor directory.
type AlumniFetcher interface {
	ListAlumni(ctx context.Context) ([]domain.User, error)
	StartConversation(ctx context.Context, otherUserID int64) (*domain.Conversation, error)
}

// Alumni is the find-a-mentor directory: an authenticated listing with a
// multi-field search and a shortcut into messaging.
type Alumni struct {
	ctx     context.Context
	fetcher AlumniFetcher
	post    func(Event)
	log     *logrus.Logger

	authenticated bool

	loading  bool
	mentors  []domain.User
	search   string
	starting bool

	// navigateTo is set when a started conversation wants the UI to move
	// to its route; the UI consumes it with TakeNavigation.
	navigateTo string
}

type alumniLoaded struct {
	mentors []domain.User
	err     error
}

type mentorConversationStarted struct {
	conv *domain.Conversation
	err  error
}

func (alumniLoaded) isEvent()              {}
func (mentorConversationStarted) isEvent() {}

func NewAlumni(ctx context.Context, fetcher AlumniFetcher, authenticated bool, post func(Event), log *logrus.Logger) *Alumni {
	return &Alumni{
		ctx:           ctx,
		fetcher:       fetcher,
		post:          post,
		log:           ensureLogger(log),
		authenticated: authenticated,
	}
}

// Load fetches the directory; without a session nothing is fetched.
func (a *Alumni) Load() {
	if !a.authenticated {
		return
	}
	a.loading = true
	go func() {
		mentors, err := a.fetcher.ListAlumni(a.ctx)
		a.post(alumniLoaded{mentors: mentors, err: err})
	}()
}

func (a *Alumni) Authenticated() bool { return a.authenticated }

func (a *Alumni) Loading() bool { return a.loading }

func (a *Alumni) SetSearch(term string) { a.search = term }

// Mentors returns the directory filtered by the search term across name,
// department, company and position, case-insensitively.
func (a *Alumni) Mentors() []domain.User {
	needle := strings.ToLower(strings.TrimSpace(a.search))
	if needle == "" {
		return a.mentors
	}
	out := make([]domain.User, 0, len(a.mentors))
	for _, m := range a.mentors {
		if matchesMentor(m, needle) {
			out = append(out, m)
		}
	}
	return out
}

func matchesMentor(m domain.User, needle string) bool {
	if strings.Contains(strings.ToLower(m.Name), needle) {
		return true
	}
	for _, f := range []*string{m.Department, m.CurrentCompany, m.CurrentPosition} {
		if f != nil && strings.Contains(strings.ToLower(*f), needle) {
			return true
		}
	}
	return false
}

// StartConversation opens (or resumes) a chat with a mentor; on success
// the model requests navigation to the conversation's route.
func (a *Alumni) StartConversation(mentorID int64) {
	if !a.authenticated || a.starting {
		return
	}
	a.starting = true
	go func() {
		conv, err := a.fetcher.StartConversation(a.ctx, mentorID)
		a.post(mentorConversationStarted{conv: conv, err: err})
	}()
}

// TakeNavigation returns and clears the pending navigation target.
func (a *Alumni) TakeNavigation() string {
	route := a.navigateTo
	a.navigateTo = ""
	return route
}

// Apply folds one event into the model.
func (a *Alumni) Apply(ev Event) {
	switch e := ev.(type) {
	case alumniLoaded:
		a.loading = false
		if e.err != nil {
			a.log.WithError(e.err).Warn("loading alumni failed")
			a.mentors = nil
			return
		}
		a.mentors = e.mentors
	case mentorConversationStarted:
		a.starting = false
		if e.err != nil {
			a.log.WithError(e.err).Warn("starting mentor conversation failed")
			return
		}
		a.navigateTo = nav.MessagesPath(e.conv.ID)
	}
}
