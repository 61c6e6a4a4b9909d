// Package dataset parses the hierarchical data a tree layout is built from.
//
// A data set is a mapping from keys to either a list of leaf labels or a
// nested mapping of the same shape:
//
//	backend:
//	  api: [users, orders]
//	  workers:
//	    mail: [smtp]
//	frontend: [web, mobile]
//
// Key order is significant: it is the order siblings are laid out in. Data
// sets are read with the gopkg.in/yaml.v3 node API, which keeps document
// order and accepts JSON as well as YAML. A key may also map to null, which
// yields a node with no children.
//
// [Watch] reloads a data file whenever it changes on disk.
package dataset
