// Package pkg provides the core libraries of the nodetree graph editor.
//
// # Overview
//
// Nodetree keeps a node-link graph in step with a small piece of editor
// state: a layer count, a child count, and an optional hierarchical data
// set. Whenever the state changes, the graph is torn down and rebuilt as a
// laid-out tree, and the view is fitted to it. Nodes can be selected with a
// freehand lasso or a rectangular window.
//
// # Architecture
//
// The data flow through nodetree:
//
//	[config] / [dataset] file
//	         ↓
//	    [store] package (editor state, actions, subscriptions)
//	         ↓
//	    [rebuild] package (one coalesced rebuild per change)
//	         ↓
//	    [treesync] package (tree plan + layout, replayed on a surface)
//	         ↓
//	    [area] package (positions, overlay, camera)
//	         ↓
//	    [selection] gestures  /  [render/nodelink] export  /  [server] API
//
// # Quick Start
//
// Build a parametric tree and select everything inside a window:
//
//	a := area.New(area.Options{})
//	engine := treesync.New(a, treesync.Options{})
//	defer engine.Close()
//
//	st := store.New(store.InitialState(), logger)
//	ctrl := rebuild.New(st, engine, rebuild.Options{Mode: rebuild.ModeParametric})
//	if err := ctrl.Start(ctx); err != nil {
//	    return err
//	}
//	defer ctrl.Stop()
//
//	sel := selection.NewSelector()
//	w := selection.NewWindow(a.Container(), a.Index(), sel, selection.Options{})
//	err := selection.Replay(ctx, w, geom.Pt(0, 0), []geom.Point{geom.Pt(2000, 2000)}, false)
//
// # Main Packages
//
// ## Editor Core
//
// [geom] - Points, rectangles, polygons and the point-in-region tests the
// gestures hit-test with.
//
// [area] - The rendering surface: node views, connections, the overlay
// container for gesture shapes, and an animated camera.
//
// [selection] - The selection accumulator and the lasso and window gesture
// strategies built on one pointer state machine.
//
// [treesync] - Plans a tree from a data set or from layer and child counts,
// lays it out, and replays it on a surface.
//
// [rebuild] - Subscribes to the store and drives treesync, dropping
// intermediate states so at most one rebuild is pending.
//
// [store] - Editor state with reducer-style actions and change
// subscriptions.
//
// ## Data and Output
//
// [dataset] - YAML and JSON data sets with document key order, plus a file
// watcher.
//
// [graph] - Graph records and the JSON snapshot format.
//
// [render] - Export formats and SVG to PDF/PNG conversion.
//
// [render/nodelink] - Graphviz DOT with pinned positions, rendered in-process.
//
// ## Infrastructure
//
// [config] - TOML configuration with defaults and validation.
//
// [cache] - Rendered-artifact caches: file, memory and Redis backends.
//
// [server] - JSON HTTP API over a running editor.
//
// [observability] - Metric hooks, with a Prometheus implementation in
// observability/prom.
//
// [errors] - Error codes and user-facing messages.
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/selection/...  # Specific package
//	go test -run Example ./...   # Examples only
//
// [config]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/config
// [dataset]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/dataset
// [store]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/store
// [rebuild]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/rebuild
// [treesync]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/treesync
// [area]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/area
// [selection]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/selection
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/render/nodelink
// [server]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/server
// [geom]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/geom
// [graph]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/nodetree/pkg/errors
package pkg
