package extension

// DefaultCoreNames lists the extensions that ship with every PHP build and
// cannot be disabled. Membership is exact and case-sensitive.
var DefaultCoreNames = []string{
	"Core",
	"date",
	"filter",
	"hash",
	"json",
	"libxml",
	"pcre",
	"random",
	"readline",
	"Reflection",
	"SPL",
	"standard",
	"zlib",
}

// CoreSet classifies extension names as core or optional.
type CoreSet struct {
	names map[string]struct{}
}

// NewCoreSet builds a classifier from the given names. A nil slice falls back
// to DefaultCoreNames; an empty non-nil slice means nothing is core.
func NewCoreSet(names []string) *CoreSet {
	if names == nil {
		names = DefaultCoreNames
	}
	set := &CoreSet{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		set.names[name] = struct{}{}
	}
	return set
}

// DefaultCoreSet returns a classifier for DefaultCoreNames.
func DefaultCoreSet() *CoreSet {
	return NewCoreSet(DefaultCoreNames)
}

// IsCore reports whether name is a core extension.
func (s *CoreSet) IsCore(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.names[name]
	return ok
}
