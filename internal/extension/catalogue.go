package extension

import "context"

// Catalogue produces the extensions available in a runtime.
// Implementations compute IsCore themselves; the Scanner trusts them.
type Catalogue interface {
	// Extensions returns all known extensions. Names are unique.
	// Failures are reported as *ScanError with Kind ErrCatalogue.
	Extensions(ctx context.Context) ([]*Extension, error)
}

// StaticCatalogue is a Catalogue backed by a fixed list.
type StaticCatalogue []*Extension

// Extensions returns the list as is.
func (c StaticCatalogue) Extensions(ctx context.Context) ([]*Extension, error) {
	return c, nil
}
