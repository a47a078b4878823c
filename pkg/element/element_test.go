package element

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/weft/pkg/reactive"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindIntrinsic, "Intrinsic"},
		{KindComponent, "Component"},
		{KindFragment, "Fragment"},
		{KindDynamic, "Dynamic"},
		{KindPrimitive, "Primitive"},
		{KindInstance, "Instance"},
		{Kind(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestH(t *testing.T) {
	var ref RefFunc = func(any) {}
	child := H("span", "inner")

	el := H("div",
		nil,
		Class("a", "b"),
		[]Attr{ID("main"), {}},
		ref,
		child,
		"text",
		42,
		[]Element{Text("x"), Text("y")},
	)

	if el.Tag != "div" {
		t.Errorf("Tag = %q, want div", el.Tag)
	}
	wantAttrs := []Attr{{Name: "class", Value: "a b"}, {Name: "id", Value: "main"}}
	if diff := cmp.Diff(wantAttrs, el.Attrs); diff != "" {
		t.Errorf("Attrs mismatch (-want +got):\n%s", diff)
	}
	if el.Ref == nil {
		t.Error("Ref not set")
	}
	if len(el.Children) != 5 {
		t.Fatalf("len(Children) = %d, want 5", len(el.Children))
	}
	if el.Children[0] != Element(child) {
		t.Error("element child not kept as is")
	}
	if el.Children[1] != (Primitive{Value: "text"}) {
		t.Errorf("Children[1] = %#v", el.Children[1])
	}
	if el.Children[2] != (Primitive{Value: 42}) {
		t.Errorf("Children[2] = %#v", el.Children[2])
	}
}

func TestFrom(t *testing.T) {
	root := reactive.NewRoot(reactive.NewLoop())
	defer root.Dispose()
	count, _ := reactive.State(root, 1)

	var nilIntrinsic *Intrinsic
	inst := &struct{ n int }{1}

	tests := []struct {
		name string
		in   any
		want Kind
	}{
		{"nil", nil, KindPrimitive},
		{"typed nil intrinsic", nilIntrinsic, KindPrimitive},
		{"string", "hello", KindPrimitive},
		{"bool", true, KindPrimitive},
		{"float", 1.5, KindPrimitive},
		{"intrinsic", H("p"), KindIntrinsic},
		{"component", Func("c", func(*Scope) Element { return nil }), KindComponent},
		{"element slice", []Element{Text("a")}, KindFragment},
		{"any slice", []any{"a", 1}, KindFragment},
		{"getter", count, KindDynamic},
		{"instance", inst, KindInstance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := From(tt.in).Kind(); got != tt.want {
				t.Errorf("From(%v).Kind() = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestGroupSkipsNil(t *testing.T) {
	g := Group("a", nil, H("b"))
	if len(g) != 2 {
		t.Errorf("len = %d, want 2", len(g))
	}
}

func TestOn(t *testing.T) {
	a := On("clickOnce", func() {})
	if a.Name != "on:clickOnce" {
		t.Errorf("Name = %q", a.Name)
	}
	if !IsEvent(a.Name) || IsEvent("class") {
		t.Error("IsEvent misclassified")
	}
}

func TestMergeProps(t *testing.T) {
	c := Func("c", nil, Props{"a": 1}, Props{"b": 2, "a": 3})
	want := Props{"a": 3, "b": 2}
	if diff := cmp.Diff(want, c.Props); diff != "" {
		t.Errorf("Props mismatch (-want +got):\n%s", diff)
	}
}
