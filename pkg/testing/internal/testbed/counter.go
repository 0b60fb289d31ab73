// Package testbed provides internal test components for the testing framework.
package testbed

import (
	"strconv"

	"github.com/go-drift/tinyui/pkg/core"
	"github.com/go-drift/tinyui/pkg/dom"
)

// Counter displays a count and increments it on tap. The "initial" prop
// seeds the count on the first pass only.
func Counter(ctx *core.RenderContext, props core.Props) *dom.Node {
	count, setCount := core.UseState(ctx, props.Int("initial"))
	return dom.El("div",
		dom.El("span", dom.Text(strconv.Itoa(count))).WithID("count"),
		dom.Button("+1", func() { setCount(count + 1) }).WithID("inc"),
	)
}

// Toggle flips a label between "on" and "off" and counts flips in a second slot.
func Toggle(ctx *core.RenderContext, props core.Props) *dom.Node {
	on, setOn := core.UseState(ctx, false)
	flips, setFlips := core.UseState(ctx, 0)
	label := "off"
	if on {
		label = "on"
	}
	return dom.El("div",
		dom.Button(label, func() {
			setOn(!on)
			setFlips(flips + 1)
		}).WithID("toggle"),
		dom.El("small", dom.Text(strconv.Itoa(flips))).WithID("flips"),
	)
}
