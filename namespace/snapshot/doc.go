// Package snapshot persists a namespace tree. The tree is serialized top-down
// into a forward-only record structure (a folder lists its children, no
// entity refers to its parent) and framed into a binary format holding a
// JSON document, suitable for storage on disk.
//
// The main features of this package include:
//
//   - Defining the Node record, which models folders and files in a nested format.
//   - Serializing a live tree into Node records, and rebuilding a tree from them
//     in two passes: detached entities first, parent links second.
//   - Reconciling the physical mirror with a freshly loaded tree, repairing
//     missing directories and files that moved on disk.
//   - Storing snapshots atomically, optionally compressed with zstd.
//   - Comparing two snapshots to identify added, removed or modified entities.
package snapshot
