package catalogue

import (
	"iter"

	"github.com/spf13/afero"
)

// memSource is a minimal extension.FileSource over an afero filesystem listing
// a flat directory.
type memSource struct {
	fs afero.Fs
}

func (m *memSource) List(root string, recursive bool) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		infos, err := afero.ReadDir(m.fs, root)
		if err != nil {
			yield("", err)
			return
		}
		for _, info := range infos {
			if info.IsDir() {
				continue
			}
			if !yield(info.Name(), nil) {
				return
			}
		}
	}
}

func (m *memSource) ReadFile(path string) (string, error) {
	data, err := afero.ReadFile(m.fs, path)
	return string(data), err
}
