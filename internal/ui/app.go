// Package ui renders the view-models with tview. All model mutation is
// marshalled onto the tview event loop via QueueUpdateDraw, so the models
// never need locks.
package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/sirupsen/logrus"

	"github.com/LostNSeeker/AlumnConnect/internal/api"
	"github.com/LostNSeeker/AlumnConnect/internal/chatview"
	"github.com/LostNSeeker/AlumnConnect/internal/config"
	"github.com/LostNSeeker/AlumnConnect/internal/domain"
	"github.com/LostNSeeker/AlumnConnect/internal/inbox"
	"github.com/LostNSeeker/AlumnConnect/internal/nav"
	"github.com/LostNSeeker/AlumnConnect/internal/pages"
	"github.com/LostNSeeker/AlumnConnect/internal/session"
)

const (
	PageLogin    = "login"
	PageMessages = "messages"
	PageChat     = "chat"
	PageProjects = "projects"
	PageBlog     = "blog"
	PageAlumni   = "alumni"
	PageProfile  = "profile"
)

// App owns the tview application and swaps page view-models as the user
// navigates. One view-model is live per page visit; leaving a page cancels
// its context so in-flight fetches die with it.
type App struct {
	cfg      *config.Config
	log      *logrus.Logger
	sessions *session.Manager

	app    *tview.Application
	root   *tview.Pages
	header *tview.TextView
	status *tview.TextView

	components map[string]tview.Primitive

	ctx     context.Context
	current *session.Session
	client  *api.Client

	// Live page models. Nil when the page is not open.
	inboxModel   *inbox.Model
	chatModel    *chatview.Model
	projectsPage *pages.Projects
	blogPage     *pages.Blog
	alumniPage   *pages.Alumni
	profilePage  *pages.Profile
	cancelPage   context.CancelFunc

	route string
}

func New(cfg *config.Config, sessions *session.Manager, log *logrus.Logger) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		sessions:   sessions,
		app:        tview.NewApplication(),
		components: map[string]tview.Primitive{},
	}
}

// Run restores any persisted session and drives the terminal UI until the
// user quits.
func (a *App) Run(ctx context.Context) error {
	a.ctx = ctx

	sess, err := a.sessions.Restore(ctx)
	if err != nil {
		a.log.WithError(err).Info("no session restored")
	}
	a.current = sess
	a.client = a.sessions.ClientFor(sess)

	a.root = tview.NewPages()
	a.header = tview.NewTextView().SetDynamicColors(true)
	a.status = tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignRight)

	a.root.AddPage(PageLogin, a.createLoginPage(), true, false)
	a.root.AddPage(PageMessages, a.createMessagesPage(), true, false)
	a.root.AddPage(PageChat, a.createChatPage(), true, false)
	a.root.AddPage(PageProjects, a.createProjectsPage(), true, false)
	a.root.AddPage(PageBlog, a.createBlogPage(), true, false)
	a.root.AddPage(PageAlumni, a.createAlumniPage(), true, false)
	a.root.AddPage(PageProfile, a.createProfilePage(), true, false)

	bar := tview.NewFlex().
		AddItem(a.header, 0, 3, false).
		AddItem(a.status, 0, 1, false)

	frame := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(bar, 1, 0, false).
		AddItem(a.root, 0, 1, true)
	frame.SetBorder(true).SetTitle(a.cfg.AppName).SetTitleAlign(tview.AlignCenter)

	a.app.SetRoot(frame, true)
	a.app.SetInputCapture(a.globalKeys)

	a.renderHeader()
	if a.current != nil {
		a.Navigate(string(nav.RouteProjects))
	} else {
		a.openLogin()
	}

	return a.app.Run()
}

// globalKeys handles the number-key navigation bar and quit. Keys typed
// into text inputs are left alone.
func (a *App) globalKeys(event *tcell.EventKey) *tcell.EventKey {
	if _, ok := a.app.GetFocus().(*tview.TextArea); ok {
		return event
	}
	if _, ok := a.app.GetFocus().(*tview.InputField); ok {
		return event
	}
	if _, ok := a.app.GetFocus().(*tview.Form); ok {
		return event
	}

	if event.Key() == tcell.KeyCtrlC {
		a.app.Stop()
		return nil
	}
	if event.Key() != tcell.KeyRune {
		return event
	}
	switch event.Rune() {
	case 'q':
		a.app.Stop()
		return nil
	case 'l':
		if a.current == nil {
			a.openLogin()
			return nil
		}
	case 'o':
		if a.current != nil {
			a.logout()
			return nil
		}
	}

	items := a.navItems()
	if n := int(event.Rune() - '1'); n >= 0 && n < len(items) {
		a.Navigate(string(items[n].Route))
		return nil
	}
	return event
}

func (a *App) navItems() []nav.Item {
	role := ""
	if a.current != nil {
		role = a.current.User.Role
	}
	return nav.ItemsFor(role)
}

func (a *App) renderHeader() {
	var b strings.Builder
	for i, item := range a.navItems() {
		if i > 0 {
			b.WriteString("  ")
		}
		if a.route == string(item.Route) {
			fmt.Fprintf(&b, "[yellow::b][%d] %s[-:-:-]", i+1, item.Label)
		} else {
			fmt.Fprintf(&b, "[%d] %s", i+1, item.Label)
		}
	}
	a.header.SetText(" " + b.String())

	if a.current != nil {
		a.status.SetText(fmt.Sprintf("%s (%s)  [gray]o: logout, q: quit[-] ", a.current.User.Name, a.current.User.Role))
	} else {
		a.status.SetText("[gray]l: login, q: quit[-] ")
	}
}

// Navigate routes the app to a client path, tearing down the previous
// page's model first.
func (a *App) Navigate(route string) {
	a.log.WithField("route", route).Debug("navigate")
	a.closePage()
	a.route = route
	a.renderHeader()

	if id, ok := nav.ParseMessagesPath(route); ok {
		if id == 0 {
			a.openMessages(0)
		} else {
			a.openChat(id)
		}
		return
	}
	switch route {
	case string(nav.RouteProjects), string(nav.RouteMyProjects), string(nav.RouteDashboard):
		a.openProjects()
	case string(nav.RouteBlog), string(nav.RouteAbout):
		a.openBlog()
	case string(nav.RouteAlumniConnect):
		a.openAlumni()
	case string(nav.RouteLogin):
		a.openLogin()
	default:
		if id, ok := parseUserRoute(route); ok {
			a.openProfile(id)
			return
		}
		a.openProjects()
	}
}

func parseUserRoute(route string) (int64, bool) {
	rest, found := strings.CutPrefix(route, string(nav.RouteUsers)+"/")
	if !found || rest == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pageContext starts a fresh lifetime for the page being opened.
func (a *App) pageContext() context.Context {
	ctx, cancel := context.WithCancel(a.ctx)
	a.cancelPage = cancel
	return ctx
}

func (a *App) closePage() {
	if a.cancelPage != nil {
		a.cancelPage()
		a.cancelPage = nil
	}
	a.inboxModel = nil
	a.chatModel = nil
	a.projectsPage = nil
	a.blogPage = nil
	a.alumniPage = nil
	a.profilePage = nil
}

func (a *App) setSession(sess *session.Session) {
	a.current = sess
	a.client = a.sessions.ClientFor(sess)
	a.renderHeader()
}

func (a *App) logout() {
	if err := a.sessions.Logout(a.ctx); err != nil {
		a.log.WithError(err).Warn("logout failed to clear stored session")
	}
	a.setSession(nil)
	a.Navigate(string(nav.RouteProjects))
}

func (a *App) currentUser() *domain.User {
	if a.current == nil {
		return nil
	}
	return &a.current.User
}

// center wraps a primitive in spacer flexes.
func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}
