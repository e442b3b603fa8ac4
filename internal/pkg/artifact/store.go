// Package artifact stores rendered certificate documents under a public,
// path-addressable directory.
package artifact

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	ErrArtifactExists = errors.New("artifact already exists")
	ErrInvalidURL     = errors.New("artifact url outside of store")
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)

// FileName derives a collision-resistant file name from the recipient and time.
func FileName(recipientName string, at time.Time, ext string) string {
	name := strings.Join(strings.Fields(recipientName), "_")
	name = unsafeChars.ReplaceAllString(name, "")
	if name == "" {
		name = "certificate"
	}
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]

	return fmt.Sprintf("%s_%d_%s.%s", name, at.UnixMilli(), suffix, strings.TrimPrefix(ext, "."))
}

type Info struct {
	Name    string
	URL     string
	ModTime time.Time
}

// Store writes artifacts to dir inside a public filesystem root. URLs are the
// artifact paths relative to that root, e.g. /certificates/a.pdf.
type Store struct {
	fs  afero.Fs
	dir string
}

func NewStore(fs afero.Fs, dir string) *Store {
	return &Store{
		fs:  fs,
		dir: path.Clean("/" + dir),
	}
}

// Save writes data as name and returns its public URL. The file is synced and
// closed before Save returns.
func (s *Store) Save(name string, data []byte) (string, error) {
	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("s.fs.MkdirAll -> %w", err)
	}

	p := path.Join(s.dir, path.Base(name))
	f, err := s.fs.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", ErrArtifactExists
		}
		return "", fmt.Errorf("s.fs.OpenFile -> %w", err)
	}

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(p)
		return "", fmt.Errorf("f.Write -> %w", err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(p)
		return "", fmt.Errorf("f.Sync -> %w", err)
	}
	if err = f.Close(); err != nil {
		_ = s.fs.Remove(p)
		return "", fmt.Errorf("f.Close -> %w", err)
	}

	return p, nil
}

func (s *Store) Read(url string) ([]byte, error) {
	p, err := s.pathOf(url)
	if err != nil {
		return nil, err
	}

	return afero.ReadFile(s.fs, p)
}

func (s *Store) Remove(url string) error {
	p, err := s.pathOf(url)
	if err != nil {
		return err
	}

	return s.fs.Remove(p)
}

// List returns every artifact in the store directory.
func (s *Store) List() ([]Info, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("afero.ReadDir -> %w", err)
	}

	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, Info{
			Name:    e.Name(),
			URL:     path.Join(s.dir, e.Name()),
			ModTime: e.ModTime(),
		})
	}

	return out, nil
}

// URLPrefix is the path artifacts are served under.
func (s *Store) URLPrefix() string {
	return s.dir
}

// FileSystem exposes the store directory for static serving.
func (s *Store) FileSystem() http.FileSystem {
	return afero.NewHttpFs(s.fs).Dir(s.dir)
}

func (s *Store) pathOf(url string) (string, error) {
	p := path.Clean("/" + url)
	if path.Dir(p) != s.dir {
		return "", ErrInvalidURL
	}

	return p, nil
}
