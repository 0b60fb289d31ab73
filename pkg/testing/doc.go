// Package testing provides a component testing harness for tinyui.
//
// # Quick Start
//
// Create a tester, register and render a component, and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := tinytest.NewTesterWithT(t)
//	    tester.Register("Counter", Counter)
//	    tester.Render("Counter", nil)
//
//	    tester.Tap(tinytest.ByText("+1"))
//
//	    if !tester.Find(tinytest.ByText("1")).Exists() {
//	        t.Error("expected count 1")
//	    }
//	}
//
// Setters re-render synchronously, so there is nothing to pump after a tap.
//
// # Snapshot Testing
//
// Capture and compare the mounted tree together with the instance's slots:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.json")
//
// Update snapshots with:
//
//	TINYUI_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import tinytest "github.com/go-drift/tinyui/pkg/testing"
package testing
