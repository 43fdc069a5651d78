package pages

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/LostNSeeker/AlumnConnect/internal/api"
	"github.com/LostNSeeker/AlumnConnect/internal/domain"
)

// ProjectsFetcher is the API slice for the projects page.
type ProjectsFetcher interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	ApplyToProject(ctx context.Context, projectID int64, message string) error
}

// Projects lists active postings and runs the application dialog.
type Projects struct {
	ctx     context.Context
	fetcher ProjectsFetcher
	post    func(Event)
	log     *logrus.Logger

	authenticated bool

	loading  bool
	projects []domain.Project

	selected   *domain.Project
	message    string
	submitting bool
	submitted  bool
	applyError string
}

type projectsLoaded struct {
	projects []domain.Project
	err      error
}

type applicationSettled struct {
	projectID int64
	err       error
}

func (projectsLoaded) isEvent()     {}
func (applicationSettled) isEvent() {}

func NewProjects(ctx context.Context, fetcher ProjectsFetcher, authenticated bool, post func(Event), log *logrus.Logger) *Projects {
	return &Projects{
		ctx:           ctx,
		fetcher:       fetcher,
		post:          post,
		log:           ensureLogger(log),
		authenticated: authenticated,
	}
}

// Load fetches the public project list; only active postings are kept.
func (p *Projects) Load() {
	p.loading = true
	go func() {
		projects, err := p.fetcher.ListProjects(p.ctx)
		p.post(projectsLoaded{projects: projects, err: err})
	}()
}

func (p *Projects) Loading() bool { return p.loading }

func (p *Projects) Projects() []domain.Project { return p.projects }

// OpenApply opens the application dialog for a project.
func (p *Projects) OpenApply(project domain.Project) {
	p.selected = &project
	p.message = ""
	p.submitted = false
	p.applyError = ""
}

// CloseApply dismisses the dialog.
func (p *Projects) CloseApply() {
	p.selected = nil
	p.applyError = ""
}

func (p *Projects) ApplyTarget() *domain.Project { return p.selected }

func (p *Projects) SetMessage(text string) { p.message = text }

func (p *Projects) Submitting() bool { return p.submitting }

// Submitted reports whether the last application went through.
func (p *Projects) Submitted() bool { return p.submitted }

// ApplyError is the server's rejection message, verbatim, or empty.
func (p *Projects) ApplyError() string { return p.applyError }

// SubmitApplication sends the dialog's message. Requires a session, an
// open dialog and a non-empty message; duplicates are rejected while one
// is in flight.
func (p *Projects) SubmitApplication() bool {
	if !p.authenticated || p.selected == nil || p.submitting {
		return false
	}
	message := strings.TrimSpace(p.message)
	if message == "" {
		return false
	}
	p.submitting = true
	p.applyError = ""
	projectID := p.selected.ID

	go func() {
		err := p.fetcher.ApplyToProject(p.ctx, projectID, message)
		p.post(applicationSettled{projectID: projectID, err: err})
	}()
	return true
}

// Apply folds one event into the model.
func (p *Projects) Apply(ev Event) {
	switch e := ev.(type) {
	case projectsLoaded:
		p.loading = false
		if e.err != nil {
			p.log.WithError(e.err).Warn("loading projects failed")
			p.projects = nil
			return
		}
		active := make([]domain.Project, 0, len(e.projects))
		for _, proj := range e.projects {
			if proj.Status == domain.ProjectStatusActive {
				active = append(active, proj)
			}
		}
		p.projects = active
	case applicationSettled:
		p.submitting = false
		if e.err != nil {
			// Shown inline, exactly as the server phrased it.
			p.applyError = api.ServerMessage(e.err)
			p.log.WithError(e.err).WithField("project_id", e.projectID).
				Warn("project application rejected")
			return
		}
		p.submitted = true
	}
}
