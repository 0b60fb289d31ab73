// Package mount provides MountPoint implementations and the selector helper
// used to find them.
//
// Container keeps the attached tree in memory and is what tests and
// embedders usually want. WriterMount prints every attached tree as HTML.
// ImageMount rasterizes the tree's text into an image.
//
// A Document names mount points so they can be looked up by selector:
//
//	doc := mount.NewDocument()
//	doc.Add("app", mount.NewContainer("app"))
//	sel, err := mount.Select(rt, doc, "#app")
//	if err != nil {
//	    return err
//	}
//	sel.RenderComponent("Counter", nil)
package mount
