// Package taxonomy folds flat rows into a single-rooted category tree.
//
// # Overview
//
// Each [Row] carries a taxonomy path: an ordered sequence of category keys
// such as ["Europe", "France", "Paris"]. Rows that share a path prefix share
// the tree nodes for that prefix, so folding
//
//	["A", "X"], ["A", "Y"], ["B"]
//
// produces
//
//	root
//	├── A
//	│   ├── X
//	│   └── Y
//	└── B
//
// Children are kept in first-seen order. Folding the same rows twice always
// yields the same tree.
//
// # Node Kinds
//
// Every node is either a leaf, which owns exactly one source row, or an
// internal node, which owns children and no row. The kind is decided once
// when [Builder.Finish] freezes the tree:
//
//   - Two rows with an identical full path: the later row replaces the
//     earlier one (counted in [BuildStats.Overwritten]).
//   - A row whose path ends at a node that also has children: the row is
//     dropped from the tree (counted in [BuildStats.Shadowed]).
//
// # Null Keys
//
// A key may be the null marker ([Null]). When null keys are excluded the
// segment is skipped and the row folds into whatever prefix remains; a row
// made only of null keys folds into the root.
//
// No values are aggregated here. See package partition for that.
package taxonomy
