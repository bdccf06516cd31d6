// Package telepathic is a templating and two-way data-binding engine for
// component hosts.
//
// A template is HTML (or Markdown rendered to HTML) containing markers of the
// form ${path}. Mounting a template binds every marker to a property of the
// host's owner object: text occurrences follow the property one way, and an
// attribute whose whole value is a marker is kept in sync both ways through
// the change event.
//
// Main sub-packages:
//
//   - dom: In-memory DOM with events, mutation records, shadow roots and
//     HTML parsing/rendering
//   - schema: Element schema (attribute kinds, URL sanitization, raw text
//     tags) and the property schema governing vivification
//   - marker: Marker discovery and path handling
//   - binding: Observable objects, Binding and the per-host Registry
//   - resolver: Path resolution with auto-vivification
//   - compiler: The text and attribute passes turning markers into bindings
//   - loader: Template loading (file system, HTTP), caching and Markdown
//   - component: The Host orchestrating root, load, compile and ready
//   - config: Engine configuration
//   - util: String helpers and the Console logging interface
//
// Example:
//
//	h := component.New(dom.NewElement("telepathic-view"), nil,
//		component.WithLoader(loader.NewFSLoader(os.DirFS("views"))),
//	)
//	if err := h.Connect(ctx, "greeting"); err != nil {
//		return err
//	}
//	_ = h.Owner().SetText("name", "Ada")
package telepathic
