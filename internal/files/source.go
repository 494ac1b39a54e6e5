// Package files lists and reads the source files of a project tree.
package files

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// ErrNotText indicates a file whose content is not valid UTF-8 text.
var ErrNotText = errors.New("file is not valid text")

var (
	errNotDir = errors.New("not a directory")

	// errStopWalk ends a walk early when the consumer stops iterating.
	errStopWalk = errors.New("stop walk")
)

// Source lists and reads files on an afero filesystem.
type Source struct {
	fs     afero.Fs
	ignore *IgnoreRules
}

// NewSource creates a Source on fs. Paths matching ignore rules are never listed.
func NewSource(fs afero.Fs, ignore *IgnoreRules) *Source {
	if ignore == nil {
		ignore = &IgnoreRules{}
	}
	return &Source{fs: fs, ignore: ignore}
}

// NewOSSource creates a Source on the real filesystem.
func NewOSSource(ignore *IgnoreRules) *Source {
	return NewSource(afero.NewOsFs(), ignore)
}

// List yields the regular files under root as slash-separated paths relative
// to root, in lexical walk order. When recursive is false only direct children
// are listed. An unreadable directory yields an error and ends the sequence.
func (s *Source) List(root string, recursive bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if path == root {
				if !info.IsDir() {
					return fmt.Errorf("%s: %w", root, errNotDir)
				}
				return nil
			}

			relPath, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			relPath = filepath.ToSlash(relPath)

			if info.IsDir() {
				if !recursive || s.ignore.MatchDir(relPath) {
					return filepath.SkipDir
				}
				return nil
			}

			if s.ignore.Match(relPath) {
				return nil
			}

			if !yield(relPath, nil) {
				return errStopWalk
			}
			return nil
		})

		if err != nil && !errors.Is(err, errStopWalk) {
			yield("", err)
		}
	}
}

// ReadFile returns the full content of path. Content that is not valid UTF-8
// is rejected with ErrNotText.
func (s *Source) ReadFile(path string) (string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(data) {
		return "", fmt.Errorf("%s: %w", path, ErrNotText)
	}

	return string(data), nil
}
