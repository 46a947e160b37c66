// Package identity names simulated nodes and resolves which record file
// belongs to the running node.
//
// A node is named by a 128-bit identity rendered in the canonical
// 36-character hyphenated form. The record file for a node lives at
// <base>/Nodes/<identity>, and resolution at startup picks the file from
// whichever inputs the operator supplied: an explicit path, an identifier
// plus base directory, or nothing at all, which is an error rather than a
// silently invented identity.
//
// Resolution failures (invalid identifier, missing file, missing inputs)
// are fatal at process startup and carry typed errors so the command layer
// can log them distinctly before exiting.
package identity
