package extension

import (
	"iter"
	"sync"
)

// mockFileSource implements FileSource for testing.
type mockFileSource struct {
	mu       sync.Mutex
	files    map[string]string // full path -> content
	order    []string          // listing order, relative paths
	listErr  error
	readErrs map[string]error // full path -> error
	onRead   func(path string)

	listCalls []string
	readCalls []string
}

func newMockFileSource() *mockFileSource {
	return &mockFileSource{
		files:    make(map[string]string),
		readErrs: make(map[string]error),
	}
}

// add registers a file under root with the given relative path.
func (m *mockFileSource) add(root, rel, content string) *mockFileSource {
	m.order = append(m.order, rel)
	m.files[root+"/"+rel] = content
	return m
}

func (m *mockFileSource) List(root string, recursive bool) iter.Seq2[string, error] {
	m.mu.Lock()
	m.listCalls = append(m.listCalls, root)
	m.mu.Unlock()

	return func(yield func(string, error) bool) {
		if m.listErr != nil {
			yield("", m.listErr)
			return
		}
		for _, rel := range m.order {
			if !yield(rel, nil) {
				return
			}
		}
	}
}

func (m *mockFileSource) ReadFile(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readCalls = append(m.readCalls, path)
	if m.onRead != nil {
		m.onRead(path)
	}
	if err, ok := m.readErrs[path]; ok {
		return "", err
	}
	return m.files[path], nil
}

func (m *mockFileSource) reads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.readCalls))
	copy(out, m.readCalls)
	return out
}

// recordingProgress counts progress callbacks.
type recordingProgress struct {
	mu             sync.Mutex
	started        []string
	scanned        []string
	used           []string
	complete       int
	completedFiles int
	failures       []error
}

func (r *recordingProgress) OnScanStart(root string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, root)
}

func (r *recordingProgress) OnFileScanned(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scanned = append(r.scanned, path)
}

func (r *recordingProgress) OnExtensionUsed(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.used = append(r.used, name)
}

func (r *recordingProgress) OnScanComplete(scannedFiles, usedExtensions int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.complete++
	r.completedFiles = scannedFiles
}

func (r *recordingProgress) OnScanError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, err)
}
