package demo

import (
	"sort"
	"time"

	"github.com/vango-dev/weft/pkg/element"
)

// SampleTodos seeds the todos app.
var SampleTodos = []Todo{
	{ID: 1, Title: "Write the renderer", Done: true},
	{ID: 2, Title: "Hydrate the page"},
	{ID: 3, Title: "Ship it"},
}

// SampleUsers backs the profile app.
var SampleUsers = []User{
	{ID: 1, Name: "Ada Lovelace", Email: "ada@example.com"},
	{ID: 2, Name: "Alan Turing", Email: "alan@example.com"},
}

var apps = map[string]func() element.Element{
	"counter": func() element.Element { return Counter(0) },
	"todos":   func() element.Element { return TodoList(SampleTodos) },
	"profile": func() element.Element {
		return Profile(1, Directory(200*time.Millisecond, SampleUsers...))
	},
	"showcase": Showcase,
}

// Showcase combines every demo on one page.
func Showcase() element.Element {
	users := Directory(200*time.Millisecond, SampleUsers...)
	return element.H("main",
		element.H("h1", "weft"),
		Counter(0),
		TodoList(SampleTodos),
		Profile(2, users),
	)
}

// Lookup returns the app registered under name.
func Lookup(name string) (func() element.Element, bool) {
	app, ok := apps[name]
	return app, ok
}

// Names lists the registered apps.
func Names() []string {
	names := make([]string, 0, len(apps))
	for name := range apps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
