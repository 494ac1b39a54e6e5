package extension

import (
	"context"
	"io"
	"iter"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// DefaultSuffix is the file name suffix of PHP source files.
const DefaultSuffix = ".php"

// FileSource lists and reads the files of a source tree.
type FileSource interface {
	// List yields paths relative to root, slash-separated. The sequence is
	// consumed once; a non-nil error ends it.
	List(root string, recursive bool) iter.Seq2[string, error]

	// ReadFile returns the full text content of path.
	ReadFile(path string) (string, error)
}

// Scanner finds the extensions referenced by a source tree.
type Scanner struct {
	source   FileSource
	matcher  *Matcher
	suffix   string
	workers  int
	progress ProgressReporter
	logger   *log.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithSuffix sets the file name suffix of scanned files.
func WithSuffix(suffix string) Option {
	return func(s *Scanner) {
		if suffix != "" {
			s.suffix = suffix
		}
	}
}

// WithWorkers sets how many files are evaluated concurrently.
// Values below 2 select the sequential scan.
func WithWorkers(workers int) Option {
	return func(s *Scanner) {
		s.workers = workers
	}
}

// WithMatcher sets the symbol matcher.
func WithMatcher(m *Matcher) Option {
	return func(s *Scanner) {
		if m != nil {
			s.matcher = m
		}
	}
}

// WithProgress sets the progress reporter.
func WithProgress(p ProgressReporter) Option {
	return func(s *Scanner) {
		if p != nil {
			s.progress = p
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewScanner creates a Scanner reading files from source.
func NewScanner(source FileSource, opts ...Option) *Scanner {
	s := &Scanner{
		source:   source,
		suffix:   DefaultSuffix,
		workers:  1,
		progress: &NoOpProgressReporter{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.matcher == nil {
		s.matcher = sharedMatcher()
	}
	return s
}

// GetUsedExtensions returns the extensions with at least one symbol referenced
// by a source file under path, each once, in the order they were first found.
//
// An empty extensions list returns immediately without touching the source.
// Listing and read failures abort the scan and are returned as *ScanError.
func (s *Scanner) GetUsedExtensions(ctx context.Context, extensions []*Extension, path string) ([]*Extension, error) {
	if len(extensions) == 0 {
		return []*Extension{}, nil
	}

	path = TrimPath(path)
	used := newUsedSet(len(extensions))

	s.progress.OnScanStart(path)

	var (
		scanned int
		err     error
	)
	if s.workers > 1 {
		scanned, err = s.scanParallel(ctx, extensions, path, used)
	} else {
		scanned, err = s.scanSequential(ctx, extensions, path, used)
	}
	if err != nil {
		s.progress.OnScanError(err)
		return nil, err
	}

	s.progress.OnScanComplete(scanned, used.Len())
	s.logger.Debug("scan complete", "path", path, "files", scanned, "used", used.Len())

	return used.Slice(), nil
}

func (s *Scanner) scanSequential(ctx context.Context, extensions []*Extension, root string, used *usedSet) (int, error) {
	scanned := 0

	for subPath, err := range s.source.List(root, true) {
		if err != nil {
			return scanned, &ScanError{Kind: ErrList, Path: root, Err: err}
		}
		if err := ctx.Err(); err != nil {
			return scanned, err
		}

		fullPath := JoinPath(root, subPath)
		if !strings.HasSuffix(fullPath, s.suffix) {
			continue
		}

		if err := s.scanFile(extensions, fullPath, used); err != nil {
			return scanned, err
		}
		scanned++
	}

	return scanned, nil
}

func (s *Scanner) scanParallel(ctx context.Context, extensions []*Extension, root string, used *usedSet) (int, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	var (
		scanned atomic.Int64
		listErr error
	)

	for subPath, err := range s.source.List(root, true) {
		if err != nil {
			listErr = &ScanError{Kind: ErrList, Path: root, Err: err}
			break
		}
		if gctx.Err() != nil {
			break
		}

		fullPath := JoinPath(root, subPath)
		if !strings.HasSuffix(fullPath, s.suffix) {
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := s.scanFile(extensions, fullPath, used); err != nil {
				return err
			}
			scanned.Add(1)
			return nil
		})
	}

	// The first failing file wins over the cancellation it caused.
	err := g.Wait()
	if err == nil {
		err = listErr
	}
	if err == nil {
		err = ctx.Err()
	}

	return int(scanned.Load()), err
}

// scanFile reads one file and records every not yet used extension that it references.
func (s *Scanner) scanFile(extensions []*Extension, fullPath string, used *usedSet) error {
	content, err := s.source.ReadFile(fullPath)
	if err != nil {
		return &ScanError{Kind: ErrRead, Path: fullPath, Err: err}
	}

	for _, ext := range extensions {
		if used.Has(ext) {
			continue
		}

		symbol, ok := s.firstMatch(ext, content)
		if !ok {
			continue
		}

		if used.Add(ext) {
			s.logger.Debug("extension used", "extension", ext.name, "symbol", symbol, "file", fullPath)
			s.progress.OnExtensionUsed(ext.name)
		}
	}

	s.progress.OnFileScanned(fullPath)
	return nil
}

// firstMatch returns the first symbol of ext found in content, checking
// classes, then constants, then functions.
func (s *Scanner) firstMatch(ext *Extension, content string) (string, bool) {
	for _, group := range ext.symbolGroups() {
		for _, symbol := range group {
			if s.matcher.Matches(content, symbol) {
				return symbol, true
			}
		}
	}
	return "", false
}

// TrimPath strips trailing separators from path. The filesystem root is kept.
func TrimPath(path string) string {
	trimmed := strings.TrimRight(path, "/")
	if trimmed == "" && strings.HasPrefix(path, "/") {
		return "/"
	}
	return trimmed
}

// JoinPath joins root and a relative sub-path with a single separator.
func JoinPath(root, subPath string) string {
	subPath = strings.TrimLeft(subPath, "/")
	if root == "/" {
		return "/" + subPath
	}
	return root + "/" + subPath
}
