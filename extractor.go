package pars

import "context"

// Document is a fetched and parsed page handed to an Extractor.
type Document struct {
	// BaseURL is the page address used to resolve relative references.
	BaseURL string

	// Body is the raw markup as fetched.
	Body string

	// Tree is the parsed markup.
	Tree Tree
}

// Extractor produces the records of one extraction mode. Missing structure
// yields no records rather than an error.
type Extractor interface {
	Mode() Mode
	Extract(ctx context.Context, doc *Document, r Reporter) ([]Record, error)
}

// ExtractorRegistry looks up the extractor of a mode.
type ExtractorRegistry interface {
	// Lookup returns EINVALID if no extractor is registered for mode.
	Lookup(mode Mode) (Extractor, error)
}
