// Package dom defines Node, the renderable unit produced by render functions.
//
// A Node is a small element tree: a tag, optional id and attributes, text,
// event handlers and children. Nodes are built fresh on every render pass and
// attached whole to a mount point; nothing is diffed.
//
//	dom.El("div",
//	    dom.Text(fmt.Sprintf("%d", count)),
//	    dom.Button("+1", func() { setCount(count + 1) }).WithID("inc"),
//	)
package dom
