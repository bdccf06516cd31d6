package compiler_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"telepathic-go/packages/telepathic/binding"
	"telepathic-go/packages/telepathic/compiler"
	"telepathic-go/packages/telepathic/dom"
	"telepathic-go/packages/telepathic/resolver"
	"telepathic-go/packages/telepathic/schema"
	"telepathic-go/packages/telepathic/util"
)

type fixture struct {
	root     *dom.Node
	owner    *binding.Object
	registry *binding.Registry
	result   *compiler.Result
}

func compile(t *testing.T, template string, owner *binding.Object, opts ...compiler.Option) *fixture {
	t.Helper()
	fragment, err := dom.ParseFragment(template)
	if err != nil {
		t.Fatalf("ParseFragment failed: %v", err)
	}
	root := dom.NewElement("div")
	root.AppendChild(fragment)
	if owner == nil {
		owner = binding.NewObject()
	}
	registry := binding.NewRegistry()
	result, err := compiler.New(opts...).Compile(template, root, owner, registry)
	if err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	return &fixture{root: root, owner: owner, registry: registry, result: result}
}

func first(t *testing.T, root *dom.Node, tag string) *dom.Node {
	t.Helper()
	for _, n := range dom.Elements(root) {
		if n.Tag == tag {
			return n
		}
	}
	t.Fatalf("no <%s> under root", tag)
	return nil
}

func TestCompileGreeting(t *testing.T) {
	f := compile(t, `<p>Hello ${this.name}</p><input value="${this.name}">`, nil)
	p := first(t, f.root, "p")
	input := first(t, f.root, "input")

	t.Run("should render the undeclared property as empty", func(t *testing.T) {
		if diff := cmp.Diff("Hello <span></span>", p.InnerHTML()); diff != "" {
			t.Errorf("InnerHTML mismatch (-want +got):\n%s", diff)
		}
		if input.Value() != "" {
			t.Errorf("Expected the input value to be cleared, got %q", input.Value())
		}
		if v, _ := input.GetAttribute("value"); v != "" {
			t.Errorf("Expected the value attribute to be cleared, got %q", v)
		}
		if !f.owner.Get("name").IsUndeclared() {
			t.Error("Expected owner.name to hold the undeclared sentinel")
		}
	})

	t.Run("should push a property write to both nodes", func(t *testing.T) {
		if err := f.owner.SetText("name", "Ada"); err != nil {
			t.Fatalf("SetText failed: %v", err)
		}
		if p.TextContent() != "Hello Ada" {
			t.Errorf("Expected 'Hello Ada', got %q", p.TextContent())
		}
		if input.Value() != "Ada" {
			t.Errorf("Expected input value 'Ada', got %q", input.Value())
		}
	})

	t.Run("should pull a change event back into the owner", func(t *testing.T) {
		input.SetValue("Grace")
		input.DispatchEvent(dom.NewEvent("change"))
		if !f.owner.Get("name").Equal(binding.Text("Grace")) {
			t.Errorf("Expected owner.name 'Grace', got %q", f.owner.Get("name"))
		}
		if p.TextContent() != "Hello Grace" {
			t.Errorf("Expected 'Hello Grace', got %q", p.TextContent())
		}
	})

	t.Run("should create a single binding", func(t *testing.T) {
		if diff := cmp.Diff([]string{"name"}, f.registry.Keys()); diff != "" {
			t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
		}
		b, _ := f.registry.Lookup("name")
		if len(b.Attachments()) != 2 {
			t.Errorf("Expected 2 attachments, got %d", len(b.Attachments()))
		}
	})
}

func TestCompileMarkers(t *testing.T) {
	t.Run("should create one binding per unique path", func(t *testing.T) {
		f := compile(t, `<p>${this.a} ${this.a} ${a}</p><i>${this.b}</i>`, nil)
		if diff := cmp.Diff([]string{"a", "b"}, f.registry.Keys()); diff != "" {
			t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
		}
		if len(f.result.Markers) != 3 {
			t.Errorf("Expected 3 distinct markers, got %v", f.result.Markers)
		}
		_ = f.owner.SetText("a", "x")
		p := first(t, f.root, "p")
		if diff := cmp.Diff("<span>x</span> <span>x</span> <span>x</span>", p.InnerHTML()); diff != "" {
			t.Errorf("InnerHTML mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should vivify nested paths", func(t *testing.T) {
		f := compile(t, `<b>${this.a.b.c}</b>`, nil)
		if f.owner.Get("a").Kind() != binding.KindObject || f.owner.GetPath("a.b").Kind() != binding.KindObject {
			t.Fatal("Expected owner.a and owner.a.b to be objects")
		}
		if diff := cmp.Diff([]string{"a", "a.b", "a.b.c"}, f.registry.Keys()); diff != "" {
			t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
		}
		leaf, _ := f.registry.Lookup("a.b.c")
		_ = leaf.Set(binding.Text("deep"))
		b := first(t, f.root, "b")
		if b.TextContent() != "deep" {
			t.Errorf("Expected 'deep', got %q", b.TextContent())
		}

		replacement := binding.NewObject()
		inner := binding.NewObject()
		_ = inner.SetText("c", "swapped")
		_ = replacement.Set("b", binding.ObjectValue(inner))
		_ = f.owner.Set("a", binding.ObjectValue(replacement))
		if b.TextContent() != "swapped" {
			t.Errorf("Expected 'swapped' after replacing owner.a, got %q", b.TextContent())
		}
	})

	t.Run("should leave an unresolvable marker as text", func(t *testing.T) {
		owner := binding.NewObject()
		_ = owner.SetText("a", "flat")
		f := compile(t, `<p>${this.a.b}</p>`, owner)
		if diff := cmp.Diff("${this.a.b}", first(t, f.root, "p").TextContent()); diff != "" {
			t.Errorf("TextContent mismatch (-want +got):\n%s", diff)
		}
		if len(f.result.Skipped) != 1 || len(f.result.Bound()) != 0 {
			t.Errorf("Expected the marker to be skipped, got %+v", f.result)
		}
		if len(f.result.Warnings) != 1 || !errors.Is(f.result.Warnings[0], binding.ErrNotObject) {
			t.Errorf("Expected an ErrNotObject warning, got %v", f.result.Warnings)
		}
	})

	t.Run("should not touch raw text elements", func(t *testing.T) {
		f := compile(t, `<script>var x = "${this.a}";</script><p>${this.a}</p>`, nil)
		script := first(t, f.root, "script")
		if script.TextContent() != `var x = "${this.a}";` {
			t.Errorf("Expected script text untouched, got %q", script.TextContent())
		}
		if len(first(t, f.root, "p").Children()) != 1 {
			t.Error("Expected the paragraph marker to be replaced")
		}
	})

	t.Run("should honour custom tokens", func(t *testing.T) {
		f := compile(t, `<p>${self.name}</p>`, nil,
			compiler.WithSelfToken("self."),
			compiler.WithBindAttribute("data-x"),
		)
		if diff := cmp.Diff([]string{"name"}, f.registry.Keys()); diff != "" {
			t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
		}
		span := first(t, f.root, "span")
		if span.HasAttribute("data-x") {
			t.Error("Expected the placeholder attribute to be removed")
		}
	})
}

func TestCompileValues(t *testing.T) {
	t.Run("should insert node values as elements", func(t *testing.T) {
		owner := binding.NewObject()
		_ = owner.Set("widget", binding.Node(dom.NewElement("em")))
		f := compile(t, `<p>${this.widget}</p>`, owner)
		p := first(t, f.root, "p")
		if diff := cmp.Diff("<span><em></em></span>", p.InnerHTML()); diff != "" {
			t.Errorf("InnerHTML mismatch (-want +got):\n%s", diff)
		}
		_ = owner.Set("widget", binding.Node(dom.NewElement("strong")))
		if diff := cmp.Diff("<span><strong></strong></span>", p.InnerHTML()); diff != "" {
			t.Errorf("InnerHTML mismatch (-want +got):\n%s", diff)
		}
		_ = owner.SetText("widget", "<b>plain</b>")
		if diff := cmp.Diff("<span>&lt;b&gt;plain&lt;/b&gt;</span>", p.InnerHTML()); diff != "" {
			t.Errorf("InnerHTML mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should bind class attributes by token", func(t *testing.T) {
		f := compile(t, `<div class="${this.state}"></div>`, nil)
		div := first(t, f.root, "div")
		if div.ClassName() != "" {
			t.Errorf("Expected the class to be cleared, got %q", div.ClassName())
		}
		_ = f.owner.SetText("state", "active")
		_ = f.owner.SetText("state", "done")
		if div.ClassName() != "done" {
			t.Errorf("Expected class 'done', got %q", div.ClassName())
		}
	})

	t.Run("should sanitize URL attributes", func(t *testing.T) {
		owner := binding.NewObject()
		_ = owner.SetText("link", "javascript:alert(1)")
		f := compile(t, `<a href="${this.link}">go</a>`, owner)
		href, _ := first(t, f.root, "a").GetAttribute("href")
		if href != "unsafe:javascript:alert(1)" {
			t.Errorf("Expected a sanitized href, got %q", href)
		}
	})

	t.Run("should keep a declared value on the attribute", func(t *testing.T) {
		owner := binding.NewObject()
		_ = owner.SetText("title", "Intro")
		f := compile(t, `<h1 title="${this.title}"></h1>`, owner)
		h1 := first(t, f.root, "h1")
		if v, _ := h1.GetAttribute("title"); v != "Intro" {
			t.Errorf("Expected title 'Intro', got %q", v)
		}
		if h1.ListenerCount("change") != 1 {
			t.Error("Expected a change listener on the two-way attribute")
		}
	})
}

func TestCompileWithSchema(t *testing.T) {
	properties := schema.NewPropertySchema()
	_ = properties.DeclareText("user.name", "guest")
	console := &util.RecordingConsole{}
	f := compile(t, `<p>${this.user.name}</p><p>${this.other}</p>`, nil,
		compiler.WithPropertySchema(properties),
		compiler.WithConsole(console),
	)

	t.Run("should apply schema defaults", func(t *testing.T) {
		if diff := cmp.Diff("guest", first(t, f.root, "span").TextContent()); diff != "" {
			t.Errorf("TextContent mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("should report paths missing from the schema", func(t *testing.T) {
		var unknown *compiler.UnknownPathWarning
		var undeclared *resolver.UndeclaredPropertyWarning
		var found, foundUndeclared bool
		for _, w := range f.result.Warnings {
			if errors.As(w, &unknown) && unknown.Path == "other" {
				found = true
			}
			if errors.As(w, &undeclared) && undeclared.Path == "other" {
				foundUndeclared = true
			}
		}
		if !found || !foundUndeclared {
			t.Errorf("Expected warnings for 'other', got %v", f.result.Warnings)
		}
		if len(console.Warnings) != len(f.result.Warnings) {
			t.Errorf("Expected every warning to be logged, got %v", console.Warnings)
		}
	})
}

func TestRecompile(t *testing.T) {
	t.Run("should bind markers added after the first compile", func(t *testing.T) {
		f := compile(t, `<p>${this.name}</p>`, nil)
		_ = f.owner.SetText("name", "Ada")

		added, _ := dom.ParseFragment(`<em>${this.name}</em>`)
		f.root.AppendChild(added)
		if _, err := compiler.New().Compile("", f.root, f.owner, f.registry); err != nil {
			t.Fatalf("Compile failed: %v", err)
		}
		em := first(t, f.root, "em")
		if em.TextContent() != "Ada" {
			t.Errorf("Expected the new marker to show 'Ada', got %q", em.TextContent())
		}
		_ = f.owner.SetText("name", "Grace")
		if em.TextContent() != "Grace" || first(t, f.root, "p").TextContent() != "Grace" {
			t.Error("Expected both nodes to follow the property")
		}
		if f.registry.Len() != 1 {
			t.Errorf("Expected one binding, got %d", f.registry.Len())
		}
	})

	t.Run("should not attach an unset input again", func(t *testing.T) {
		f := compile(t, `<p>${this.name}</p><input value="${this.name}">`, nil)
		for i := 0; i < 3; i++ {
			if _, err := compiler.New().Compile("", f.root, f.owner, f.registry); err != nil {
				t.Fatalf("Compile failed: %v", err)
			}
		}
		b, _ := f.registry.Lookup("name")
		if got := len(b.Attachments()); got != 2 {
			t.Errorf("Expected 2 attachments, got %d", got)
		}
		if got := first(t, f.root, "input").ListenerCount("change"); got != 1 {
			t.Errorf("Expected 1 change listener, got %d", got)
		}
		if strings.Contains(f.root.InnerHTML(), "${") {
			t.Errorf("Expected no marker in the markup, got %q", f.root.InnerHTML())
		}
	})
}

func TestBindingIntegrityError(t *testing.T) {
	t.Run("should name the marker and key", func(t *testing.T) {
		var err error = &compiler.BindingIntegrityError{Marker: "${this.a}", Key: "a"}
		var target *compiler.BindingIntegrityError
		if !errors.As(err, &target) || target.Key != "a" {
			t.Fatal("Expected errors.As to find the error")
		}
		if diff := cmp.Diff(`no binding registered for ${this.a} (key "a")`, err.Error()); diff != "" {
			t.Errorf("Error() mismatch (-want +got):\n%s", diff)
		}
	})
}
