package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader resolves theme names to definitions.
type Loader struct {
	ConfigDir string
	SystemDir string
	// Inline holds themes defined in the config file; they win over files.
	Inline map[string]*Theme
}

// NewLoader creates a Loader with the standard search paths.
func NewLoader() *Loader {
	home, _ := os.UserHomeDir()
	return &Loader{
		ConfigDir: filepath.Join(home, ".config", "proofmark", "themes"),
		SystemDir: "/usr/share/proofmark/themes",
	}
}

// Load resolves name in order: config-defined themes, an existing file
// path, embedded themes, ConfigDir, SystemDir. An empty name yields Default.
func (l *Loader) Load(name string) (*Theme, error) {
	if name == "" {
		return Default(), nil
	}
	if t, ok := l.Inline[name]; ok {
		return t, nil
	}
	if _, err := os.Stat(name); err == nil {
		return parseFile(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}

	filename := name
	if !strings.HasSuffix(filename, ".theme") {
		filename += ".theme"
	}
	sources := []struct {
		fsys fs.FS
		path string
	}{
		{EmbeddedThemes, "defaults/" + filename},
		{os.DirFS(l.ConfigDir), filename},
		{os.DirFS(l.SystemDir), filename},
	}
	for _, s := range sources {
		t, err := parseFile(s.fsys, s.path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return t, err
	}
	return nil, fmt.Errorf("theme %q not found", name)
}

func parseFile(fsys fs.FS, path string) (*Theme, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	return t, nil
}
