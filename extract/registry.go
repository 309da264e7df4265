package extract

import (
	"github.com/IDGORRU/pars"
)

// Ensure Registry implements pars.ExtractorRegistry at compile time.
var _ pars.ExtractorRegistry = (*Registry)(nil)

// Registry maps modes to extractors.
type Registry struct {
	extractors map[pars.Mode]pars.Extractor
}

// NewRegistry creates a Registry holding the extractor of every mode, backed
// by the given pattern library.
func NewRegistry(lib pars.PatternLibrary) *Registry {
	r := &Registry{extractors: make(map[pars.Mode]pars.Extractor)}
	r.Register(NewEmail(lib))
	r.Register(NewLink())
	r.Register(NewData(lib))
	r.Register(NewInventory())
	r.Register(NewCredential(lib))
	r.Register(NewSecret(lib))
	r.Register(NewGiftCode(lib))
	return r
}

// Register adds or replaces the extractor of e's mode.
func (r *Registry) Register(e pars.Extractor) {
	r.extractors[e.Mode()] = e
}

// Lookup returns the extractor of mode.
func (r *Registry) Lookup(mode pars.Mode) (pars.Extractor, error) {
	if e, ok := r.extractors[mode]; ok {
		return e, nil
	}
	return nil, pars.Errorf(pars.EINVALID, "no extractor for mode %q", mode)
}
