package ui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/LostNSeeker/AlumnConnect/internal/domain"
	"github.com/LostNSeeker/AlumnConnect/internal/format"
	"github.com/LostNSeeker/AlumnConnect/internal/nav"
	"github.com/LostNSeeker/AlumnConnect/internal/pages"
)

const (
	lsProjects      = "projects.list"
	tvProjectDetail = "projects.detail"
	pgProjects      = "projects.inner"
	fmApply         = "projects.apply"

	lsBlog       = "blog.list"
	tvBlogDetail = "blog.detail"

	ifAlumniSearch = "alumni.search"
	lsAlumni       = "alumni.list"

	tvProfile = "profile.text"
)

// --- Projects ---

func (a *App) createProjectsPage() tview.Primitive {
	list := tview.NewList().ShowSecondaryText(true)
	list.SetBorder(true).SetTitle("Active projects (Enter: apply)")
	a.components[lsProjects] = list

	detail := tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	detail.SetBorder(true).SetTitle("Details")
	a.components[tvProjectDetail] = detail

	list.SetChangedFunc(func(index int, _, _ string, _ rune) {
		if a.projectsPage == nil {
			return
		}
		projects := a.projectsPage.Projects()
		if index >= 0 && index < len(projects) {
			detail.SetText(projectDetail(projects[index]))
		}
	})
	list.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		if a.projectsPage == nil {
			return
		}
		projects := a.projectsPage.Projects()
		if index < 0 || index >= len(projects) {
			return
		}
		if a.current == nil {
			detail.SetText("[red]Sign in to apply to a project.[-]\n\n" + projectDetail(projects[index]))
			return
		}
		a.projectsPage.OpenApply(projects[index])
		a.showApplyForm()
	})

	main := tview.NewFlex().
		AddItem(list, 0, 1, true).
		AddItem(detail, 0, 2, false)

	inner := tview.NewPages()
	inner.AddPage(subMain, main, true, true)
	a.components[pgProjects] = inner
	return inner
}

func (a *App) showApplyForm() {
	target := a.projectsPage.ApplyTarget()
	if target == nil {
		return
	}
	inner := a.components[pgProjects].(*tview.Pages)

	form := tview.NewForm()
	form.SetBorder(true).SetTitle("Apply: " + format.Truncate(target.Title, 40))
	form.AddTextArea("Message", "", 0, 5, 0, func(text string) {
		a.projectsPage.SetMessage(text)
	})
	form.AddButton("Submit", func() {
		if a.projectsPage.SubmitApplication() {
			form.SetTitle("Submitting...")
		}
	})
	form.AddButton("Cancel", func() {
		a.projectsPage.CloseApply()
		inner.RemovePage(fmApply)
	})

	inner.AddPage(fmApply, center(form, 60, 14), true, true)
	a.app.SetFocus(form)
}

func (a *App) openProjects() {
	var model *pages.Projects
	post := func(ev pages.Event) {
		a.app.QueueUpdateDraw(func() {
			if a.projectsPage != model {
				return
			}
			model.Apply(ev)
			a.renderProjects()
		})
	}
	model = pages.NewProjects(a.pageContext(), a.client, a.current != nil, post, a.log)
	a.projectsPage = model
	model.Load()
	a.renderProjects()
	a.root.SwitchToPage(PageProjects)
	a.app.SetFocus(a.components[lsProjects])
}

func (a *App) renderProjects() {
	m := a.projectsPage
	if m == nil {
		return
	}
	list := a.components[lsProjects].(*tview.List)
	detail := a.components[tvProjectDetail].(*tview.TextView)
	inner := a.components[pgProjects].(*tview.Pages)

	list.Clear()
	for _, p := range m.Projects() {
		list.AddItem(p.Title, p.Category, 0, nil)
	}
	if m.Loading() && list.GetItemCount() == 0 {
		list.AddItem("Loading...", "", 0, nil)
	}
	if projects := m.Projects(); len(projects) > 0 {
		detail.SetText(projectDetail(projects[0]))
	}

	if m.ApplyTarget() == nil {
		inner.RemovePage(fmApply)
		a.app.SetFocus(list)
		return
	}
	if m.Submitted() {
		m.CloseApply()
		inner.RemovePage(fmApply)
		detail.SetText("[green]Application submitted.[-]")
		a.app.SetFocus(list)
		return
	}
	if msg := m.ApplyError(); msg != "" && !m.Submitting() {
		detail.SetText("[red]" + msg + "[-]")
	}
}

func projectDetail(p domain.Project) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%s[-:-:-]\n\n%s\n\n", p.Title, p.Description)
	fmt.Fprintf(&b, "Category: %s\n", p.Category)
	if len(p.SkillsRequired) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(p.SkillsRequired, ", "))
	}
	if p.Stipend != nil {
		fmt.Fprintf(&b, "Stipend: %d\n", *p.Stipend)
	}
	if p.Duration != nil {
		fmt.Fprintf(&b, "Duration: %s\n", *p.Duration)
	}
	fmt.Fprintf(&b, "Posted by %s on %s\n", p.CreatedByName, format.Date(p.CreatedAt))
	return b.String()
}

// --- Blog ---

func (a *App) createBlogPage() tview.Primitive {
	list := tview.NewList().ShowSecondaryText(true)
	list.SetBorder(true).SetTitle("Blog (Enter: read, L: like)")
	a.components[lsBlog] = list

	detail := tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	detail.SetBorder(true).SetTitle("Post")
	a.components[tvBlogDetail] = detail

	list.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		if a.blogPage == nil {
			return
		}
		posts := a.blogPage.Posts()
		if index >= 0 && index < len(posts) {
			detail.SetText(blogDetail(posts[index]))
		}
	})
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && (event.Rune() == 'L' || event.Rune() == 'l') {
			if a.blogPage == nil {
				return nil
			}
			posts := a.blogPage.Posts()
			index := list.GetCurrentItem()
			if index >= 0 && index < len(posts) {
				if !a.blogPage.ToggleLike(posts[index].ID) && a.current == nil {
					detail.SetText("[red]Sign in to like a post.[-]")
					return nil
				}
				a.renderBlog()
			}
			return nil
		}
		return event
	})

	return tview.NewFlex().
		AddItem(list, 0, 1, true).
		AddItem(detail, 0, 2, false)
}

func (a *App) openBlog() {
	var model *pages.Blog
	post := func(ev pages.Event) {
		a.app.QueueUpdateDraw(func() {
			if a.blogPage != model {
				return
			}
			model.Apply(ev)
			a.renderBlog()
		})
	}
	model = pages.NewBlog(a.pageContext(), a.client, a.current != nil, post, a.log)
	a.blogPage = model
	model.Load()
	a.renderBlog()
	a.root.SwitchToPage(PageBlog)
	a.app.SetFocus(a.components[lsBlog])
}

func (a *App) renderBlog() {
	m := a.blogPage
	if m == nil {
		return
	}
	list := a.components[lsBlog].(*tview.List)
	current := list.GetCurrentItem()
	list.Clear()
	for _, post := range m.Posts() {
		liked := ""
		if post.IsLiked {
			liked = " [red]♥[-]"
		}
		main := fmt.Sprintf("%s%s (%d)", post.Title, liked, post.LikesCount)
		list.AddItem(main, fmt.Sprintf("%s  %s", post.AuthorName, format.Date(post.CreatedAt)), 0, nil)
	}
	if m.Loading() && list.GetItemCount() == 0 {
		list.AddItem("Loading...", "", 0, nil)
	}
	if current >= 0 && current < list.GetItemCount() {
		list.SetCurrentItem(current)
	}
}

func blogDetail(post domain.BlogPost) string {
	return fmt.Sprintf("[::b]%s[-:-:-]\n%s, %s\n\n%s\n\n[gray]%d likes[-]",
		post.Title, post.AuthorName, format.Date(post.CreatedAt), post.Content, post.LikesCount)
}

// --- Alumni directory ---

func (a *App) createAlumniPage() tview.Primitive {
	search := tview.NewInputField().SetLabel("Search mentors: ").SetFieldWidth(0)
	a.components[ifAlumniSearch] = search

	list := tview.NewList().ShowSecondaryText(true)
	list.SetBorder(true).SetTitle("Mentors (Enter: message, P: profile)")
	a.components[lsAlumni] = list

	search.SetChangedFunc(func(text string) {
		if a.alumniPage != nil {
			a.alumniPage.SetSearch(text)
			a.renderAlumni()
		}
	})
	search.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter || key == tcell.KeyTab {
			a.app.SetFocus(list)
		}
	})

	list.SetSelectedFunc(func(index int, _, _ string, _ rune) {
		if a.alumniPage == nil {
			return
		}
		mentors := a.alumniPage.Mentors()
		if index >= 0 && index < len(mentors) {
			a.alumniPage.StartConversation(mentors[index].ID)
		}
	})
	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyBacktab {
			a.app.SetFocus(search)
			return nil
		}
		if event.Key() == tcell.KeyRune && (event.Rune() == 'p' || event.Rune() == 'P') {
			if a.alumniPage == nil {
				return nil
			}
			mentors := a.alumniPage.Mentors()
			index := list.GetCurrentItem()
			if index >= 0 && index < len(mentors) {
				a.openProfile(mentors[index].ID)
			}
			return nil
		}
		return event
	})

	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(search, 1, 0, false).
		AddItem(list, 0, 1, true)
}

func (a *App) openAlumni() {
	if a.current == nil {
		a.openLogin()
		return
	}
	var model *pages.Alumni
	post := func(ev pages.Event) {
		a.app.QueueUpdateDraw(func() {
			if a.alumniPage != model {
				return
			}
			model.Apply(ev)
			if route := model.TakeNavigation(); route != "" {
				a.Navigate(route)
				return
			}
			a.renderAlumni()
		})
	}
	model = pages.NewAlumni(a.pageContext(), a.client, true, post, a.log)
	a.alumniPage = model
	model.Load()
	a.renderAlumni()
	a.root.SwitchToPage(PageAlumni)
	a.app.SetFocus(a.components[lsAlumni])
}

func (a *App) renderAlumni() {
	m := a.alumniPage
	if m == nil {
		return
	}
	list := a.components[lsAlumni].(*tview.List)
	list.Clear()
	for _, mentor := range m.Mentors() {
		var parts []string
		if mentor.CurrentPosition != nil {
			parts = append(parts, *mentor.CurrentPosition)
		}
		if mentor.CurrentCompany != nil {
			parts = append(parts, *mentor.CurrentCompany)
		}
		if mentor.Department != nil {
			parts = append(parts, *mentor.Department)
		}
		list.AddItem(mentor.Name, strings.Join(parts, ", "), 0, nil)
	}
	if m.Loading() && list.GetItemCount() == 0 {
		list.AddItem("Loading...", "", 0, nil)
	}
}

// --- User profile ---

func (a *App) createProfilePage() tview.Primitive {
	view := tview.NewTextView().SetDynamicColors(true).SetWordWrap(true)
	view.SetBorder(true).SetTitle("Profile (Esc: back)")
	a.components[tvProfile] = view

	view.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			a.Navigate(string(nav.RouteAlumniConnect))
			return nil
		}
		return event
	})
	return view
}

func (a *App) openProfile(userID int64) {
	a.closePage()
	a.route = nav.UserPath(userID)
	a.renderHeader()
	var model *pages.Profile
	post := func(ev pages.Event) {
		a.app.QueueUpdateDraw(func() {
			if a.profilePage != model {
				return
			}
			model.Apply(ev)
			a.renderProfile()
		})
	}
	model = pages.NewProfile(a.pageContext(), a.client, a.current != nil, post, a.log)
	a.profilePage = model
	model.Load(userID)
	a.renderProfile()
	a.root.SwitchToPage(PageProfile)
	a.app.SetFocus(a.components[tvProfile])
}

func (a *App) renderProfile() {
	m := a.profilePage
	if m == nil {
		return
	}
	view := a.components[tvProfile].(*tview.TextView)

	if !m.Authenticated() {
		view.SetText("Sign in to view profiles.")
		return
	}
	if m.NotFound() {
		view.SetText("[red]User not found.[-]")
		return
	}
	profile := m.Profile()
	if profile == nil {
		view.SetText("Loading profile...")
		return
	}
	view.SetText(profileDetail(profile))
}

func profileDetail(p *domain.Profile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%s[-:-:-] (%s)  %s\n", p.Name, format.Initials(p.Name), p.Role)
	fmt.Fprintf(&b, "%s\n\n", p.Email)
	if p.Bio != nil {
		fmt.Fprintf(&b, "%s\n\n", *p.Bio)
	}
	if p.CurrentPosition != nil && p.CurrentCompany != nil {
		fmt.Fprintf(&b, "Works as %s at %s\n", *p.CurrentPosition, *p.CurrentCompany)
	}
	if p.Department != nil {
		fmt.Fprintf(&b, "Department: %s\n", *p.Department)
	}
	if p.GraduationYear != nil {
		fmt.Fprintf(&b, "Class of %d\n", *p.GraduationYear)
	}
	if len(p.Skills) > 0 {
		names := make([]string, 0, len(p.Skills))
		for _, s := range p.Skills {
			names = append(names, s.Name)
		}
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(names, ", "))
	}
	if len(p.Languages) > 0 {
		names := make([]string, 0, len(p.Languages))
		for _, l := range p.Languages {
			names = append(names, l.Name)
		}
		fmt.Fprintf(&b, "Languages: %s\n", strings.Join(names, ", "))
	}
	for _, ach := range p.Achievements {
		fmt.Fprintf(&b, "- %s\n", ach.Title)
	}
	return b.String()
}
