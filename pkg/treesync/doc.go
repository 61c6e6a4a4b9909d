// Package treesync rebuilds the editor graph from a layout configuration.
//
// Two layouts exist. [PlanTree] walks a [dataset.Tree] and places every key
// one level below its parent, centering children under it; a layer count
// bounds how deep the walk goes. [PlanParametric] grows a uniform tree of a
// given depth and branching factor from a single root, one column per layer.
//
// Planning is pure. An [Engine] applies a plan to an [area.Surface] by
// tearing the current graph down (connections first, then nodes) and adding
// each planned node, its position and its parent connection in order,
// waiting on every surface call. Rebuilds on one engine never interleave.
// After a rebuild the engine schedules a viewport fit without waiting for it.
package treesync
