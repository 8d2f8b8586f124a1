// Package naming holds the filename-level helpers around the rename
// engine: natural ordering of discovered files, validity checks for new
// names, metadata placeholder expansion, and collision resolution for
// targets claimed by more than one file.
package naming
