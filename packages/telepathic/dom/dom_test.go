package dom_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"telepathic-go/packages/telepathic/dom"
)

func mustParse(t *testing.T, source string) *dom.Node {
	t.Helper()
	fragment, err := dom.ParseFragment(source)
	if err != nil {
		t.Fatalf("ParseFragment(%q) failed: %v", source, err)
	}
	return fragment
}

func TestParseAndRender(t *testing.T) {
	t.Run("should round trip simple markup", func(t *testing.T) {
		fragment := mustParse(t, `<p class="a b">Hello <b>world</b></p><input value="x">`)
		expected := `<p class="a b">Hello <b>world</b></p><input value="x"/>`
		if got := fragment.InnerHTML(); got != expected {
			t.Errorf("Expected %q, got %q", expected, got)
		}
	})

	t.Run("should escape text content", func(t *testing.T) {
		p := dom.NewElement("p")
		p.SetTextContent("<b>&</b>")
		if got := p.OuterHTML(); got != "<p>&lt;b&gt;&amp;&lt;/b&gt;</p>" {
			t.Errorf("Unexpected rendering %q", got)
		}
	})

	t.Run("should keep markers as literal text and attribute values", func(t *testing.T) {
		fragment := mustParse(t, `<p>Hi ${this.name}</p><input value="${this.name}">`)
		texts := dom.TextNodes(fragment)
		if len(texts) != 1 || texts[0].Data != "Hi ${this.name}" {
			t.Fatalf("Unexpected text nodes %v", texts)
		}
		input := dom.Elements(fragment)[1]
		if v, _ := input.GetAttribute("value"); v != "${this.name}" {
			t.Errorf("Expected marker attribute, got %q", v)
		}
	})
}

func TestTreeOperations(t *testing.T) {
	t.Run("should replace a child with the children of a fragment", func(t *testing.T) {
		parent := dom.NewElement("div")
		a, b, c := dom.NewText("a"), dom.NewText("b"), dom.NewText("c")
		parent.AppendChild(a).AppendChild(b).AppendChild(c)

		x, y := dom.NewElement("i"), dom.NewText("y")
		if err := parent.ReplaceChild(dom.NewFragment(x, y), b); err != nil {
			t.Fatalf("ReplaceChild failed: %v", err)
		}
		if got := parent.InnerHTML(); got != "a<i></i>yc" {
			t.Errorf("Unexpected children %q", got)
		}
		if b.Parent() != nil || x.Parent() != parent {
			t.Error("Expected parent links to be updated")
		}
	})

	t.Run("should move a node that already has a parent", func(t *testing.T) {
		first, second := dom.NewElement("div"), dom.NewElement("div")
		child := dom.NewElement("span")
		first.AppendChild(child)
		second.AppendChild(child)
		if len(first.Children()) != 0 || second.FirstChild() != child {
			t.Error("Expected child to move to the second parent")
		}
	})

	t.Run("should re-append an existing child at the end", func(t *testing.T) {
		parent := dom.NewElement("div")
		a, b := dom.NewText("a"), dom.NewText("b")
		parent.AppendChild(a).AppendChild(b).AppendChild(a)
		if got := parent.TextContent(); got != "ba" {
			t.Errorf("Expected 'ba', got %q", got)
		}
	})

	t.Run("should reject cycles and foreign references", func(t *testing.T) {
		parent := dom.NewElement("div")
		child := dom.NewElement("span")
		parent.AppendChild(child)
		if err := child.InsertBefore(parent, nil); !errors.Is(err, dom.ErrHierarchy) {
			t.Errorf("Expected ErrHierarchy, got %v", err)
		}
		if err := parent.RemoveChild(dom.NewText("x")); !errors.Is(err, dom.ErrNotChild) {
			t.Errorf("Expected ErrNotChild, got %v", err)
		}
	})

	t.Run("should deep clone without sharing children", func(t *testing.T) {
		fragment := mustParse(t, `<ul><li>1</li><li>2</li></ul>`)
		clone := fragment.CloneNode(true)
		dom.Elements(clone)[1].SetTextContent("x")
		if fragment.InnerHTML() != "<ul><li>1</li><li>2</li></ul>" {
			t.Error("Expected original to be untouched")
		}
	})
}

func TestProperties(t *testing.T) {
	t.Run("should shadow the value attribute with the value property", func(t *testing.T) {
		input := dom.NewElement("input", dom.Attribute{Name: "value", Value: "a"})
		if input.Value() != "a" {
			t.Errorf("Expected value to mirror attribute, got %q", input.Value())
		}
		input.SetValue("b")
		if input.Prop("value") != "b" {
			t.Errorf("Expected property 'b', got %q", input.Prop("value"))
		}
		if v, _ := input.GetAttribute("value"); v != "a" {
			t.Errorf("Expected attribute to stay 'a', got %q", v)
		}
	})

	t.Run("should edit class tokens", func(t *testing.T) {
		el := dom.NewElement("div", dom.Attribute{Name: "class", Value: "a b"})
		el.ClassList().Remove("a")
		el.ClassList().Add("c", "b")
		if diff := cmp.Diff([]string{"b", "c"}, el.ClassList().Tokens()); diff != "" {
			t.Errorf("Tokens() mismatch (-want +got):\n%s", diff)
		}
		if !el.ClassList().Contains("c") || el.ClassList().Contains("a") {
			t.Error("Unexpected Contains result")
		}
	})

	t.Run("should set inner HTML through Prop", func(t *testing.T) {
		el := dom.NewElement("div")
		if err := el.SetProp("innerHTML", "<em>x</em>"); err != nil {
			t.Fatalf("SetProp failed: %v", err)
		}
		if el.FirstChild().Tag != "em" || el.Prop("innerHTML") != "<em>x</em>" {
			t.Errorf("Unexpected content %q", el.InnerHTML())
		}
	})
}

func TestAttachShadow(t *testing.T) {
	cases := []struct {
		tag string
		ok  bool
	}{
		{"my-element", true},
		{"div", true},
		{"input", false},
		{"font-face", false},
		{"element", false},
	}
	for _, c := range cases {
		t.Run(c.tag, func(t *testing.T) {
			root, err := dom.NewElement(c.tag).AttachShadow()
			if c.ok && (err != nil || root == nil) {
				t.Errorf("Expected shadow root, got %v", err)
			}
			if !c.ok && !errors.Is(err, dom.ErrShadowUnsupported) {
				t.Errorf("Expected ErrShadowUnsupported, got %v", err)
			}
		})
	}

	t.Run("should refuse a second shadow root", func(t *testing.T) {
		host := dom.NewElement("x-host")
		root, _ := host.AttachShadow()
		if root.Host() != host || host.ShadowRoot() != root {
			t.Error("Expected host and shadow root to be linked")
		}
		if _, err := host.AttachShadow(); !errors.Is(err, dom.ErrShadowExists) {
			t.Errorf("Expected ErrShadowExists, got %v", err)
		}
	})
}

func TestEventsAndMutations(t *testing.T) {
	t.Run("should dispatch to listeners in order", func(t *testing.T) {
		input := dom.NewElement("input")
		var got []string
		input.AddEventListener("change", func(e *dom.Event) { got = append(got, "a:"+e.Target.Tag) })
		input.AddEventListener("change", func(e *dom.Event) { got = append(got, "b") })
		input.AddEventListener("input", func(e *dom.Event) { got = append(got, "other") })
		input.DispatchEvent(dom.NewEvent("change"))
		if diff := cmp.Diff([]string{"a:input", "b"}, got); diff != "" {
			t.Errorf("Dispatch mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report writes to observers", func(t *testing.T) {
		el := dom.NewElement("input")
		var kinds []string
		el.Observe(func(m dom.Mutation) { kinds = append(kinds, m.Kind.String()+":"+m.Name) })
		el.SetAttribute("title", "x")
		el.SetValue("v")
		el.AppendChild(dom.NewText("t"))
		expected := []string{"attributes:title", "property:value", "childList:"}
		if diff := cmp.Diff(expected, kinds); diff != "" {
			t.Errorf("Mutations mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestTraversal(t *testing.T) {
	fragment := mustParse(t, `<div>a<span>b</span></div><p>c</p>`)
	var tags []string
	for _, el := range dom.Elements(fragment) {
		tags = append(tags, el.Tag)
	}
	if diff := cmp.Diff([]string{"div", "span", "p"}, tags); diff != "" {
		t.Errorf("Elements() mismatch (-want +got):\n%s", diff)
	}
	var texts []string
	for _, n := range dom.TextNodes(fragment) {
		texts = append(texts, n.Data)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, texts); diff != "" {
		t.Errorf("TextNodes() mismatch (-want +got):\n%s", diff)
	}
}
