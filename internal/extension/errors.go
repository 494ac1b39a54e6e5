package extension

import "errors"

var (
	// ErrCatalogue indicates the extension catalogue could not be produced.
	ErrCatalogue = errors.New("catalogue error")

	// ErrList indicates the source tree could not be listed.
	ErrList = errors.New("list error")

	// ErrRead indicates a source file could not be read.
	ErrRead = errors.New("read error")
)

// ScanError carries an error kind and the underlying cause.
// Its message is the cause's message so it can be shown to users unchanged.
type ScanError struct {
	Kind error  // one of ErrCatalogue, ErrList, ErrRead
	Path string // path being listed or read, if any
	Err  error
}

func (e *ScanError) Error() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return e.Err.Error()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// Is matches the error kind, so errors.Is(err, ErrRead) works on wrapped errors.
func (e *ScanError) Is(target error) bool {
	return target == e.Kind
}

// NewCatalogueError wraps err as a catalogue failure.
func NewCatalogueError(err error) error {
	return &ScanError{Kind: ErrCatalogue, Err: err}
}
