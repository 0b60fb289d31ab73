// Package demo holds the components bundled with the tinyui CLI.
package demo

import (
	"fmt"
	"strconv"

	"github.com/go-drift/tinyui/pkg/core"
	"github.com/go-drift/tinyui/pkg/dom"
)

// Demo is a bundled component and the element scripted clicks target.
type Demo struct {
	Name   string
	Render core.RenderFunc
	Target string
}

var demos = []Demo{
	{Name: "Counter", Render: Counter, Target: "inc"},
	{Name: "Todos", Render: Todos, Target: "add"},
}

// All returns the bundled demos.
func All() []Demo {
	return append([]Demo(nil), demos...)
}

// Lookup returns the demo registered under name.
func Lookup(name string) (Demo, bool) {
	for _, d := range demos {
		if d.Name == name {
			return d, true
		}
	}
	return Demo{}, false
}

// Register registers every bundled demo with rt.
func Register(rt *core.Runtime) {
	for _, d := range demos {
		rt.Register(d.Name, d.Render)
	}
}

// Counter shows a count and a button that adds "step" (default 1) to it.
// "initial" seeds the count on the first pass only.
func Counter(ctx *core.RenderContext, props core.Props) *dom.Node {
	count, setCount := core.UseState(ctx, props.Int("initial"))
	step := props.Int("step")
	if step == 0 {
		step = 1
	}
	title := props.String("title")
	if title == "" {
		title = "Counter"
	}
	return dom.El("div",
		dom.El("h1", dom.Text(title)),
		dom.El("p", dom.Text(strconv.Itoa(count))).WithID("count").WithAttr("aria-live", "polite"),
		dom.Button(fmt.Sprintf("+%d", step), func() { setCount(count + step) }).WithID("inc"),
	).WithID("counter")
}

// Todos keeps a list of items and a running id in two slots.
func Todos(ctx *core.RenderContext, props core.Props) *dom.Node {
	items, setItems := core.UseStateFunc(ctx, func() []string { return []string{} })
	next, setNext := core.UseState(ctx, 1)

	list := dom.El("ul").WithID("items")
	for i, item := range items {
		list.Children = append(list.Children, dom.El("li", dom.Text(item)).WithID("item-"+strconv.Itoa(i)))
	}
	return dom.El("div",
		dom.El("h1", dom.Text(fmt.Sprintf("Todos (%d)", len(items)))),
		list,
		dom.Button("add", func() {
			// Copy so the slice held by earlier passes is never mutated.
			grown := append(append([]string(nil), items...), "task "+strconv.Itoa(next))
			setItems(grown)
			setNext(next + 1)
		}).WithID("add"),
		dom.Button("clear", func() { setItems([]string{}) }).WithID("clear"),
	).WithID("todos")
}
