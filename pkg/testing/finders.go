package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/tinyui/pkg/dom"
)

// Finder locates nodes in a mounted tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *dom.Node) []*dom.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*dom.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *dom.Node {
	if len(r.nodes) == 0 {
		desc := "unknown"
		if r.finder != nil {
			desc = r.finder.Description()
		}
		panic(fmt.Sprintf("Finder found no nodes: %s", desc))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *dom.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*dom.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Text returns the text content of the first match. Panics if no matches.
func (r FinderResult) Text() string {
	return r.First().TextContent()
}

// --- Concrete finders ---

// textFinder matches innermost elements whose text content equals text.
type textFinder struct {
	text string
}

func (f *textFinder) Evaluate(root *dom.Node) []*dom.Node {
	return collectMatches(root, func(n *dom.Node) bool {
		if n.IsText() || n.TextContent() != f.text {
			return false
		}
		for _, c := range n.Children {
			if !c.IsText() && c.TextContent() == f.text {
				return false
			}
		}
		return true
	})
}

func (f *textFinder) Description() string {
	return fmt.Sprintf("ByText(%q)", f.text)
}

// ByText returns a finder that matches elements whose full text content
// equals text. Ancestors that only wrap a match are skipped.
func ByText(text string) Finder {
	return &textFinder{text: text}
}

// textContainsFinder matches elements whose text content contains substr.
type textContainsFinder struct {
	substr string
}

func (f *textContainsFinder) Evaluate(root *dom.Node) []*dom.Node {
	return collectMatches(root, func(n *dom.Node) bool {
		return !n.IsText() && strings.Contains(n.TextContent(), f.substr)
	})
}

func (f *textContainsFinder) Description() string {
	return fmt.Sprintf("ByTextContaining(%q)", f.substr)
}

// ByTextContaining returns a finder that matches elements whose text
// content contains substr.
func ByTextContaining(substr string) Finder {
	return &textContainsFinder{substr: substr}
}

// idFinder matches nodes by id.
type idFinder struct {
	id string
}

func (f *idFinder) Evaluate(root *dom.Node) []*dom.Node {
	return collectMatches(root, func(n *dom.Node) bool {
		return n.ID == f.id
	})
}

func (f *idFinder) Description() string {
	return fmt.Sprintf("ByID(%q)", f.id)
}

// ByID returns a finder that matches nodes with the given id.
func ByID(id string) Finder {
	return &idFinder{id: id}
}

// tagFinder matches elements by tag.
type tagFinder struct {
	tag string
}

func (f *tagFinder) Evaluate(root *dom.Node) []*dom.Node {
	return collectMatches(root, func(n *dom.Node) bool {
		return n.Tag == f.tag
	})
}

func (f *tagFinder) Description() string {
	return fmt.Sprintf("ByTag(%q)", f.tag)
}

// ByTag returns a finder that matches elements with the given tag.
func ByTag(tag string) Finder {
	return &tagFinder{tag: tag}
}

// predicateFinder matches nodes satisfying a custom function.
type predicateFinder struct {
	fn   func(*dom.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *dom.Node) []*dom.Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches nodes satisfying fn.
func ByPredicate(desc string, fn func(*dom.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: desc}
}

// collectMatches walks the tree depth-first pre-order and returns nodes
// for which match returns true.
func collectMatches(root *dom.Node, match func(*dom.Node) bool) []*dom.Node {
	var result []*dom.Node
	root.Walk(func(n *dom.Node) bool {
		if match(n) {
			result = append(result, n)
		}
		return true
	})
	return result
}
