package demo

import (
	"fmt"
	"strings"

	"github.com/vango-dev/weft/pkg/element"
	"github.com/vango-dev/weft/pkg/reactive"
)

// Todo is one entry of a TodoList.
type Todo struct {
	ID    int
	Title string
	Done  bool
}

// TodoList renders an editable todo list. Items are keyed by ID, so
// toggling or removing one leaves the others' nodes in place.
func TodoList(initial []Todo) element.Element {
	return element.Func("TodoList", func(s *element.Scope) element.Element {
		todos, setTodos := reactive.State(s.Owner, append([]Todo(nil), initial...))
		draft, setDraft := reactive.State(s.Owner, "")

		nextID := 1
		for _, t := range initial {
			if t.ID >= nextID {
				nextID = t.ID + 1
			}
		}

		add := func() {
			title := strings.TrimSpace(draft.Get())
			if title == "" {
				return
			}
			setTodos.Update(func(ts []Todo) []Todo {
				return append(ts[:len(ts):len(ts)], Todo{ID: nextID, Title: title})
			})
			nextID++
			setDraft.Set("")
		}
		edit := func(id int, fn func(Todo) (Todo, bool)) {
			setTodos.Update(func(ts []Todo) []Todo {
				out := make([]Todo, 0, len(ts))
				for _, t := range ts {
					if t.ID == id {
						var keep bool
						if t, keep = fn(t); !keep {
							continue
						}
					}
					out = append(out, t)
				}
				return out
			})
		}
		toggle := func(id int) {
			edit(id, func(t Todo) (Todo, bool) {
				t.Done = !t.Done
				return t, true
			})
		}
		remove := func(id int) {
			edit(id, func(t Todo) (Todo, bool) { return t, false })
		}
		clearDone := func() {
			setTodos.Update(func(ts []Todo) []Todo {
				out := make([]Todo, 0, len(ts))
				for _, t := range ts {
					if !t.Done {
						out = append(out, t)
					}
				}
				return out
			})
		}

		left := reactive.Memo(s.Owner, func() string {
			n := 0
			for _, t := range todos.Get() {
				if !t.Done {
					n++
				}
			}
			if n == 1 {
				return "1 item left"
			}
			return fmt.Sprintf("%d items left", n)
		}, todos)
		anyDone := reactive.Memo(s.Owner, func() bool {
			for _, t := range todos.Get() {
				if t.Done {
					return true
				}
			}
			return false
		}, todos)

		items := element.For(todos, func(t Todo) int { return t.ID },
			func(item reactive.Getter[Todo], _ reactive.Getter[int]) element.Element {
				return todoItem(item, toggle, remove)
			})

		return element.H("section", element.Class("todos"),
			element.H("form", element.On("submit", add),
				element.H("input", element.Class("new"), element.Value(draft), element.OnInput(setDraft.Set)),
				element.H("button", element.Class("add"), element.Type("button"), element.OnClick(add), "Add"),
			),
			element.H("ul", items),
			element.H("footer",
				element.H("span", element.Class("left"), left),
				element.Show(anyDone,
					element.H("button", element.Class("clear"), element.OnClick(clearDone), "Clear completed"),
					nil),
			),
		)
	})
}

func todoItem(item reactive.Getter[Todo], toggle, remove func(id int)) element.Element {
	return element.Func("TodoItem", func(s *element.Scope) element.Element {
		done := reactive.Memo(s.Owner, func() bool { return item.Get().Done }, item)
		title := reactive.Memo(s.Owner, func() string { return item.Get().Title }, item)
		id := reactive.Memo(s.Owner, func() string { return fmt.Sprint(item.Get().ID) }, item)
		class := reactive.Memo(s.Owner, func() string {
			if done.Get() {
				return "todo done"
			}
			return "todo"
		}, done)

		return element.H("li", element.A("class", class), element.A("data-id", id),
			element.H("input", element.Type("checkbox"), element.Checked(done),
				element.On("change", func() { toggle(item.Get().ID) })),
			element.H("label", title),
			element.H("button", element.Class("remove"), element.OnClick(func() { remove(item.Get().ID) }), "x"),
		)
	})
}
