// Package scan walks a directory tree and reports the files that survive
// its filters.
//
// Directories are pruned by exact name, by regular expression or by the
// root .gitignore before they are read, so excluded subtrees are never
// walked. Files are then filtered by suffix. The walk is backed by fastwalk
// running a single worker, which serializes the callback.
package scan
