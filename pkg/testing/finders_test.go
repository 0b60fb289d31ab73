package testing

import (
	"testing"

	"github.com/go-drift/tinyui/pkg/dom"
)

func sampleTree() *dom.Node {
	return dom.El("div",
		dom.El("h1", dom.Text("Title")),
		dom.El("ul",
			dom.El("li", dom.Text("one")).WithID("first"),
			dom.El("li", dom.Text("two")),
		),
		dom.Button("Save", func() {}),
	)
}

func TestFinders(t *testing.T) {
	root := sampleTree()

	tests := []struct {
		name   string
		finder Finder
		want   int
	}{
		{"ByText exact", ByText("Title"), 1},
		{"ByText skips wrappers", ByText("onetwo"), 1},
		{"ByText none", ByText("three"), 0},
		{"ByTextContaining", ByTextContaining("o"), 4},
		{"ByID", ByID("first"), 1},
		{"ByTag", ByTag("li"), 2},
		{"ByPredicate", ByPredicate("has click", func(n *dom.Node) bool {
			return n.HasHandler(dom.EventClick)
		}), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(tt.finder.Evaluate(root)); got != tt.want {
				t.Errorf("%s matched %d nodes, want %d", tt.finder.Description(), got, tt.want)
			}
		})
	}
}

func TestFinderResult(t *testing.T) {
	root := sampleTree()
	result := FinderResult{nodes: ByTag("li").Evaluate(root), finder: ByTag("li")}

	if !result.Exists() || result.Count() != 2 {
		t.Fatalf("unexpected result count %d", result.Count())
	}
	if result.First().ID != "first" {
		t.Error("First should return the first match in document order")
	}
	if result.Text() != "one" {
		t.Errorf("Text() = %q", result.Text())
	}
	if len(result.All()) != 2 {
		t.Error("All should return every match")
	}

	empty := FinderResult{finder: ByID("nope")}
	if empty.FirstOrNil() != nil {
		t.Error("FirstOrNil on empty result should be nil")
	}
	defer func() {
		if recover() == nil {
			t.Error("First on empty result should panic")
		}
	}()
	empty.First()
}
