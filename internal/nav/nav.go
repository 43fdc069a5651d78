// Package nav is the client-side navigation surface: a fixed route table,
// the per-role header items derived from it, and helpers to build and parse
// the paths the views synchronize with.
package nav

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/LostNSeeker/AlumnConnect/internal/domain"
)

// Route names the pages the client can show.
type Route string

const (
	RouteHome          Route = "/"
	RouteMessages      Route = "/messages"
	RouteUsers         Route = "/users"
	RouteProjects      Route = "/projects"
	RouteAlumniConnect Route = "/alumni-connect"
	RouteBlog          Route = "/blog"
	RouteAbout         Route = "/about"
	RouteDashboard     Route = "/dashboard"
	RouteLogin         Route = "/login"
	RouteRegister      Route = "/register"
	RouteMyProjects    Route = "/alumni/projects"
)

// Item is one entry in the header navigation.
type Item struct {
	Label string
	Route Route
}

var commonItems = []Item{
	{Label: "Projects", Route: RouteProjects},
	{Label: "Alumni Connect", Route: RouteAlumniConnect},
	{Label: "Blog", Route: RouteBlog},
	{Label: "About", Route: RouteAbout},
}

// ItemsFor returns the ordered navigation items for a role. The empty role
// means no session. The result is a fresh slice each call.
func ItemsFor(role string) []Item {
	if role == "" {
		return append([]Item(nil), commonItems...)
	}

	items := make([]Item, 0, len(commonItems)+3)
	items = append(items, Item{Label: "Dashboard", Route: RouteDashboard})
	items = append(items, commonItems...)
	if role == domain.RoleAlumni {
		items = append(items, Item{Label: "My Projects", Route: RouteMyProjects})
	}
	items = append(items, Item{Label: "Messages", Route: RouteMessages})
	return items
}

// MessagesPath builds /messages or /messages/{id}.
func MessagesPath(conversationID int64) string {
	if conversationID == 0 {
		return string(RouteMessages)
	}
	return fmt.Sprintf("%s/%d", RouteMessages, conversationID)
}

// UserPath builds /users/{id}.
func UserPath(userID int64) string {
	return fmt.Sprintf("%s/%d", RouteUsers, userID)
}

// ProjectPath builds /projects/{id}.
func ProjectPath(projectID int64) string {
	return fmt.Sprintf("%s/%d", RouteProjects, projectID)
}

// ParseMessagesPath extracts the conversation id from /messages/{id}.
// A bare /messages yields id 0. ok is false for any other path or a
// non-numeric id.
func ParseMessagesPath(path string) (id int64, ok bool) {
	if path == string(RouteMessages) {
		return 0, true
	}
	rest, found := strings.CutPrefix(path, string(RouteMessages)+"/")
	if !found || rest == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
