package dom

import (
	"bufio"
	"html"
	"io"
	"slices"
	"strings"
)

// Render writes n as HTML to w. Attributes are written in sorted order so
// output is stable across passes.
func (n *Node) Render(w io.Writer) error {
	bw := bufio.NewWriter(w)
	n.render(bw)
	return bw.Flush()
}

// String returns the HTML form of n.
func (n *Node) String() string {
	var sb strings.Builder
	_ = n.Render(&sb)
	return sb.String()
}

func (n *Node) render(w *bufio.Writer) {
	if n == nil {
		return
	}
	if n.IsText() {
		w.WriteString(html.EscapeString(n.Text))
		return
	}
	w.WriteByte('<')
	w.WriteString(n.Tag)
	if n.ID != "" {
		writeAttr(w, "id", n.ID)
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		writeAttr(w, k, n.Attrs[k])
	}
	if events := n.Events(); len(events) > 0 {
		writeAttr(w, "data-on", strings.Join(events, " "))
	}
	w.WriteByte('>')
	for _, c := range n.Children {
		c.render(w)
	}
	w.WriteString("</")
	w.WriteString(n.Tag)
	w.WriteByte('>')
}

func writeAttr(w *bufio.Writer, key, value string) {
	w.WriteByte(' ')
	w.WriteString(key)
	w.WriteString(`="`)
	w.WriteString(html.EscapeString(value))
	w.WriteByte('"')
}
