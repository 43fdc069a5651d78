package ui

import (
	"github.com/rivo/tview"

	"github.com/LostNSeeker/AlumnConnect/internal/api"
	"github.com/LostNSeeker/AlumnConnect/internal/domain"
	"github.com/LostNSeeker/AlumnConnect/internal/nav"
	"github.com/LostNSeeker/AlumnConnect/internal/session"
)

const (
	fmLogin       = "login.form"
	tvLoginStatus = "login.status"
)

func (a *App) createLoginPage() tview.Primitive {
	status := tview.NewTextView().SetDynamicColors(true).SetTextAlign(tview.AlignCenter)
	a.components[tvLoginStatus] = status

	form := tview.NewForm()
	form.SetBorder(true).SetTitle("Sign in").SetTitleAlign(tview.AlignCenter)
	a.components[fmLogin] = form

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(form, 0, 1, true).
		AddItem(status, 1, 0, false)

	return center(layout, 50, 16)
}

func (a *App) openLogin() {
	a.buildLoginForm(false)
	a.root.SwitchToPage(PageLogin)
	a.app.SetFocus(a.components[fmLogin])
}

// buildLoginForm rebuilds the shared form for either sign-in or
// registration. tview forms cannot swap fields in place.
func (a *App) buildLoginForm(register bool) {
	form := a.components[fmLogin].(*tview.Form)
	status := a.components[tvLoginStatus].(*tview.TextView)
	status.SetText("")
	form.Clear(true)

	var name, email, password, role string
	role = domain.RoleStudent

	if register {
		form.SetTitle("Create account")
		form.AddInputField("Name", "", 0, nil, func(text string) { name = text })
	} else {
		form.SetTitle("Sign in")
	}
	form.AddInputField("Email", "", 0, nil, func(text string) { email = text })
	form.AddPasswordField("Password", "", 0, '*', func(text string) { password = text })
	if register {
		form.AddDropDown("Role", []string{domain.RoleStudent, domain.RoleAlumni}, 0,
			func(option string, _ int) { role = option })
	}

	submitLabel := "Sign in"
	if register {
		submitLabel = "Register"
	}
	form.AddButton(submitLabel, func() {
		if email == "" || password == "" {
			status.SetText("[red]email and password are required[-]")
			return
		}
		status.SetText("signing in...")
		if register {
			a.startRegister(api.Credentials{Name: name, Email: email, Password: password, Role: role})
		} else {
			a.startLogin(email, password)
		}
	})
	if register {
		form.AddButton("Back", func() { a.buildLoginForm(false) })
	} else {
		form.AddButton("Register", func() { a.buildLoginForm(true) })
		form.AddButton("Browse as guest", func() { a.Navigate(string(nav.RouteProjects)) })
	}
}

func (a *App) startLogin(email, password string) {
	go func() {
		sess, err := a.sessions.Login(a.ctx, email, password)
		a.app.QueueUpdateDraw(func() { a.finishAuth(sess, err) })
	}()
}

func (a *App) startRegister(creds api.Credentials) {
	go func() {
		sess, err := a.sessions.Register(a.ctx, creds)
		a.app.QueueUpdateDraw(func() { a.finishAuth(sess, err) })
	}()
}

func (a *App) finishAuth(sess *session.Session, err error) {
	status := a.components[tvLoginStatus].(*tview.TextView)
	if err != nil {
		a.log.WithError(err).Warn("authentication failed")
		status.SetText("[red]" + api.ServerMessage(err) + "[-]")
		return
	}
	a.setSession(sess)
	a.Navigate(string(nav.RouteMessages))
}
