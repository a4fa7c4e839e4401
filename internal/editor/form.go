// Package editor models an action's editor form outside a browser. It parses
// the rendered form, mounts it, runs the action's init hook and round-trips
// persisted data through the form controls.
package editor

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
)

// Control is a form element addressable by id.
type Control struct {
	id      string
	tag     atom.Atom
	value   string
	hidden  bool
	options []actionsdk.Option
}

var _ actionsdk.Element = (*Control)(nil)

func (c *Control) ID() string    { return c.id }
func (c *Control) Value() string { return c.value }

// Options returns the choices of a select control.
func (c *Control) Options() []actionsdk.Option {
	return slices.Clone(c.options)
}

// IsSelect reports whether the control is a select.
func (c *Control) IsSelect() bool {
	return c.tag == atom.Select
}

// Hidden reports whether the control is hidden with display: none.
func (c *Control) Hidden() bool {
	return c.hidden
}

// Form is a mounted editor form.
type Form struct {
	controls map[string]*Control
	order    []string
	onChange map[string][]func()
}

var _ actionsdk.Editor = (*Form)(nil)

// Parse reads a rendered form.
func Parse(r io.Reader) (*Form, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	f := &Form{
		controls: make(map[string]*Control),
		onChange: make(map[string][]func()),
	}
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if id := attr(n, "id"); id != "" {
				f.add(controlFromNode(n, id))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return f, nil
}

func (f *Form) add(c *Control) {
	if _, dup := f.controls[c.id]; !dup {
		f.order = append(f.order, c.id)
	}
	f.controls[c.id] = c
}

func controlFromNode(n *html.Node, id string) *Control {
	c := &Control{
		id:     id,
		tag:    n.DataAtom,
		value:  attr(n, "value"),
		hidden: hasDisplayNone(attr(n, "style")),
	}
	if n.DataAtom != atom.Select {
		return c
	}

	selected := ""
	for opt := n.FirstChild; opt != nil; opt = opt.NextSibling {
		if opt.Type != html.ElementNode || opt.DataAtom != atom.Option {
			continue
		}
		o := actionsdk.Option{Label: strings.TrimSpace(text(opt))}
		if v, ok := attrOK(opt, "value"); ok {
			o.Value = v
		} else {
			o.Value = o.Label
		}
		c.options = append(c.options, o)
		if _, ok := attrOK(opt, "selected"); ok && selected == "" {
			selected = o.Value
		}
	}
	switch {
	case selected != "":
		c.value = selected
	case len(c.options) > 0:
		c.value = c.options[0].Value
	}
	return c
}

// ElementByID returns the control with id, or nil.
func (f *Form) ElementByID(id string) actionsdk.Element {
	c, ok := f.controls[id]
	if !ok {
		return nil
	}
	return c
}

// Control returns the control with id.
func (f *Form) Control(id string) (*Control, bool) {
	c, ok := f.controls[id]
	return c, ok
}

// IDs returns the control ids in document order.
func (f *Form) IDs() []string {
	return slices.Clone(f.order)
}

// MessageChange shows the container when the selected message reference
// reads a variable and hides it otherwise. It is re-applied whenever the
// element's value changes.
func (f *Form) MessageChange(el actionsdk.Element, containerID string) {
	if el == nil {
		return
	}
	apply := func() {
		container, ok := f.controls[containerID]
		if !ok {
			return
		}
		source, ok := f.controls[el.ID()]
		if !ok {
			return
		}
		ref, err := actionsdk.ParseMessageRef(source.value)
		container.hidden = err != nil || !ref.UsesVariable()
	}
	f.onChange[el.ID()] = append(f.onChange[el.ID()], apply)
	apply()
}

// SetValue changes a control's value and fires its change handlers. Select
// controls only accept one of their options.
func (f *Form) SetValue(id, value string) error {
	c, ok := f.controls[id]
	if !ok {
		return fmt.Errorf("form has no element %q", id)
	}
	if c.IsSelect() && !slices.ContainsFunc(c.options, func(o actionsdk.Option) bool { return o.Value == value }) {
		return fmt.Errorf("%q is not an option of %q", value, id)
	}
	c.value = value
	for _, fn := range f.onChange[id] {
		fn()
	}
	return nil
}

// Load copies persisted data into the named controls. Missing keys leave
// the control at its default.
func (f *Form) Load(data actionsdk.Data, fields []string) error {
	for _, field := range fields {
		value, ok := data[field]
		if !ok {
			continue
		}
		if err := f.SetValue(field, value); err != nil {
			return err
		}
	}
	return nil
}

// Save reads the named controls back into persisted data.
func (f *Form) Save(name string, fields []string) actionsdk.Data {
	data := actionsdk.Data{"name": name}
	for _, field := range fields {
		if c, ok := f.controls[field]; ok {
			data[field] = c.value
		}
	}
	return data
}

// Mount renders the descriptor's form, loads data into it and runs the init
// hook, in the order the editor does.
func Mount(d actionsdk.Descriptor, isEvent bool, opts actionsdk.HostOptions, data actionsdk.Data) (*Form, error) {
	rendered, err := d.HTML(isEvent, opts)
	if err != nil {
		return nil, err
	}
	f, err := Parse(strings.NewReader(rendered))
	if err != nil {
		return nil, err
	}
	for _, field := range d.Fields() {
		if _, ok := f.controls[field]; !ok {
			return nil, fmt.Errorf("form of %q has no control for field %q", d.Name(), field)
		}
	}
	if err := f.Load(data, d.Fields()); err != nil {
		return nil, fmt.Errorf("load %q data: %w", d.Name(), err)
	}
	if err := d.Init(f); err != nil {
		return nil, fmt.Errorf("init %q: %w", d.Name(), err)
	}
	return f, nil
}

func attr(n *html.Node, key string) string {
	v, _ := attrOK(n, key)
	return v
}

func attrOK(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

func hasDisplayNone(style string) bool {
	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(prop) == "display" && strings.TrimSpace(value) == "none" {
			return true
		}
	}
	return false
}
