package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/go-drift/tinyui/pkg/dom"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot captures the mounted tree and the state slots of the instance
// that produced it.
type Snapshot struct {
	Instance string        `json:"instance,omitempty"`
	Slots    []any         `json:"slots,omitempty"`
	HTML     string        `json:"html"`
	Tree     *SnapshotNode `json:"tree,omitempty"`
}

// SnapshotNode represents a node in the serialized tree.
type SnapshotNode struct {
	Tag      string            `json:"tag"`
	ID       string            `json:"id,omitempty"`
	Text     string            `json:"text,omitempty"`
	Attrs    map[string]string `json:"attrs,omitempty"`
	Events   []string          `json:"events,omitempty"`
	Children []*SnapshotNode   `json:"children,omitempty"`
}

// CaptureSnapshot captures the current tree and slots.
func (t *Tester) CaptureSnapshot() *Snapshot {
	snap := &Snapshot{
		Instance: t.key,
		Slots:    t.Slots(),
	}
	if root := t.Root(); root != nil {
		snap.HTML = root.String()
		snap.Tree = captureNode(root)
	}
	return snap
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When TINYUI_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("TINYUI_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := loadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: TINYUI_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: TINYUI_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between this snapshot and other. Returns
// empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return lineDiff(string(b), string(a))
}

func captureNode(n *dom.Node) *SnapshotNode {
	node := &SnapshotNode{
		Tag:   n.Tag,
		ID:    n.ID,
		Text:  n.Text,
		Attrs: n.Attrs,
	}
	if events := n.Events(); len(events) > 0 {
		node.Events = events
	}
	for _, c := range n.Children {
		node.Children = append(node.Children, captureNode(c))
	}
	return node
}

func loadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// lineDiff renders a line-level diff of expected against actual, listing
// only changed lines.
func lineDiff(expected, actual string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(expected, actual)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")
	for _, d := range diffs {
		var prefix string
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line != "" {
				buf.WriteString(prefix + strings.TrimSuffix(line, "\n") + "\n")
			}
		}
	}
	return buf.String()
}
