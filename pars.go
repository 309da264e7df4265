// Package pars provides a document fetching and pattern extraction engine.
// It retrieves a page through an ordered chain of fallback network paths,
// parses the markup into a traversable tree, and runs one extraction mode
// (emails, links, structured content, tag inventory, credential fields,
// secrets, gift codes) against the tree and the raw text.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, coregex/, sqlite/).
package pars
