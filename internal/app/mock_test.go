package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// mockFS is an in-memory FileSystem. Files map paths to content; copies and
// removals mutate the map so collision checks see earlier transfers.
type mockFS struct {
	mu      sync.Mutex
	files   map[string]string
	modTime map[string]time.Time

	failCopy   map[string]error
	failRemove map[string]error
	failExists map[string]error
	copies     []string
	removes    []string
}

func newMockFS() *mockFS {
	return &mockFS{
		files:      map[string]string{},
		modTime:    map[string]time.Time{},
		failCopy:   map[string]error{},
		failRemove: map[string]error{},
		failExists: map[string]error{},
	}
}

func (m *mockFS) add(path, content string, mod time.Time) {
	m.files[path] = content
	m.modTime[path] = mod
}

func (m *mockFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	m.mu.Lock()
	paths := make([]string, 0, len(m.files))
	for path := range m.files {
		paths = append(paths, path)
	}
	m.mu.Unlock()
	sort.Strings(paths)

	if err := fn(root, mockDirEntry{name: filepath.Base(root), isDir: true}, nil); err != nil {
		return err
	}
	seenDirs := map[string]bool{root: true}
	var skipped []string
	for _, path := range paths {
		if !strings.HasPrefix(path, root+string(filepath.Separator)) {
			continue
		}
		underSkipped := false
		for _, prefix := range skipped {
			if strings.HasPrefix(path, prefix) {
				underSkipped = true
				break
			}
		}
		if underSkipped {
			continue
		}
		dir := filepath.Dir(path)
		if !seenDirs[dir] {
			seenDirs[dir] = true
			if err := fn(dir, mockDirEntry{name: filepath.Base(dir), isDir: true}, nil); err != nil {
				if errors.Is(err, fs.SkipDir) {
					skipped = append(skipped, dir+string(filepath.Separator))
					continue
				}
				return err
			}
		}
		if err := fn(path, mockDirEntry{name: filepath.Base(path)}, nil); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockFS) Stat(path string) (fs.FileInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[path]; ok {
		return mockFileInfo{name: filepath.Base(path), modTime: m.modTime[path]}, nil
	}
	for file := range m.files {
		if strings.HasPrefix(file, path+string(filepath.Separator)) {
			return mockFileInfo{name: filepath.Base(path), isDir: true}, nil
		}
	}
	return nil, fs.ErrNotExist
}

func (m *mockFS) Exists(path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failExists[path]; err != nil {
		return false, err
	}
	_, ok := m.files[path]
	return ok, nil
}

func (m *mockFS) MkdirAll(path string, perm fs.FileMode) error { return nil }

func (m *mockFS) CopyFile(src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failCopy[src]; err != nil {
		return err
	}
	content, ok := m.files[src]
	if !ok {
		return fs.ErrNotExist
	}
	m.files[dst] = content
	m.copies = append(m.copies, dst)
	return nil
}

func (m *mockFS) Remove(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failRemove[path]; err != nil {
		return err
	}
	if _, ok := m.files[path]; !ok {
		return fs.ErrNotExist
	}
	delete(m.files, path)
	m.removes = append(m.removes, path)
	return nil
}

func (m *mockFS) HashFile(path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	content, ok := m.files[path]
	if !ok {
		return "", fs.ErrNotExist
	}
	sum := sha1.Sum([]byte(content))
	return hex.EncodeToString(sum[:]), nil
}

func (m *mockFS) Writable(dir string) error { return nil }

type mockDirEntry struct {
	name  string
	isDir bool
}

func (m mockDirEntry) Name() string               { return m.name }
func (m mockDirEntry) IsDir() bool                { return m.isDir }
func (m mockDirEntry) Type() fs.FileMode          { return 0 }
func (m mockDirEntry) Info() (fs.FileInfo, error) { return nil, nil }

type mockFileInfo struct {
	name    string
	modTime time.Time
	isDir   bool
}

func (m mockFileInfo) Name() string       { return m.name }
func (m mockFileInfo) Size() int64        { return 0 }
func (m mockFileInfo) Mode() fs.FileMode  { return 0 }
func (m mockFileInfo) ModTime() time.Time { return m.modTime }
func (m mockFileInfo) IsDir() bool        { return m.isDir }
func (m mockFileInfo) Sys() interface{}   { return nil }

// mockReader returns canned metadata per path; paths without an entry get
// a decode error, exercising the fallback route.
type mockReader struct {
	metas map[string]ImageMeta
}

func (m mockReader) Read(ctx context.Context, path string) (ImageMeta, error) {
	if meta, ok := m.metas[path]; ok {
		return meta, nil
	}
	return ImageMeta{}, errors.New("no exif block")
}

// mockDecider replays scripted decisions and records the prompts it saw.
type mockDecider struct {
	decisions []Decision
	prompts   []CollisionPrompt
	err       error
}

func (m *mockDecider) Resolve(ctx context.Context, prompt CollisionPrompt) (Decision, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return Decision{}, m.err
	}
	if len(m.decisions) == 0 {
		return Decision{Action: DecisionSkip}, nil
	}
	d := m.decisions[0]
	m.decisions = m.decisions[1:]
	return d, nil
}
