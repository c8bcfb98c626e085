// Package nav builds the navigation bar for the current route and session.
package nav

import (
	"taskhub/internal/routes"
	"taskhub/internal/service"
	"taskhub/internal/session"
)

// Link is a labelled destination. An empty Target marks an action.
type Link struct {
	Label  string
	Target string
}

// Bar is the rendered navigation.
type Bar struct {
	Brand Link
	Links []Link
}

// Build returns the navigation bar for route. ok is false when the bar is
// hidden, which is on the login route.
func Build(route string, st session.State) (bar Bar, ok bool) {
	if route == routes.Login {
		return Bar{}, false
	}

	links := []Link{
		{Label: "Tasks", Target: routes.TaskList},
		{Label: "Add Task", Target: routes.TaskForm},
		{Label: "Register", Target: routes.Register},
	}
	last := session.Match(st,
		func() Link { return Link{Label: "Login", Target: routes.Login} },
		func(service.User) Link { return Link{Label: "Logout"} },
	)

	return Bar{
		Brand: Link{Label: "Task Hub", Target: routes.Root},
		Links: append(links, last),
	}, true
}
