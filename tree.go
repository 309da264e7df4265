package pars

// Tree is a parsed markup document.
type Tree interface {
	// Find returns all elements with any of the given tag names, in
	// document order.
	Find(tags ...string) []Element

	// FindFunc returns all elements matching fn, in document order.
	FindFunc(fn func(Element) bool) []Element

	// Text returns the visible text of the document with whitespace
	// collapsed. Script and style bodies are excluded.
	Text() string

	// Title returns the trimmed text of the first title element.
	Title() string

	// Count returns the number of elements with any of the given tags.
	Count(tags ...string) int
}

// Element is a single element of a Tree.
type Element interface {
	// Tag returns the lower-cased tag name.
	Tag() string

	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)

	// Attrs returns all attributes in source order.
	Attrs() []Attribute

	// Text returns the trimmed text content of the element.
	Text() string

	// Raw returns the unparsed content of raw-text elements such as
	// script, and the inner markup otherwise.
	Raw() string

	// Find returns descendants with any of the given tag names.
	Find(tags ...string) []Element
}

// Attribute is a single element attribute.
type Attribute struct {
	Name  string
	Value string
}

// TreeBuilder parses markup into a Tree. Malformed markup is accepted and
// recovered on a best-effort basis.
type TreeBuilder interface {
	Parse(body string) (Tree, error)
}
