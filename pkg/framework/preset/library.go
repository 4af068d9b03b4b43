// Package preset stores named parameter states as files in a directory.
// A preset named "Warm Pad" lives in "<dir>/Warm Pad.blackbird".
package preset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/khrykin/BlackBird/pkg/framework/debug"
	"github.com/khrykin/BlackBird/pkg/framework/state"
)

const (
	Extension  = ".blackbird"
	DefaultDir = "~/.blackbird/Presets"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrInvalidName    = errors.New("invalid preset name")
)

// Library lists, loads and saves presets through a state manager.
type Library struct {
	dir    string
	states *state.Manager
	logger *debug.Logger
}

// NewLibrary opens the preset directory, creating it when missing. A
// leading "~" in dir is expanded to the user's home directory; an empty
// dir means DefaultDir.
func NewLibrary(dir string, states *state.Manager, logger *debug.Logger) (*Library, error) {
	if dir == "" {
		dir = DefaultDir
	}
	expanded, err := homedir.Expand(dir)
	if err != nil {
		return nil, fmt.Errorf("preset directory %q: %w", dir, err)
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return nil, fmt.Errorf("create preset directory: %w", err)
	}
	if logger == nil {
		logger = debug.Default()
	}

	l := &Library{dir: expanded, states: states, logger: logger.With("preset")}
	l.logger.Debug("presets directory: %s", expanded)
	return l, nil
}

func (l *Library) Dir() string {
	return l.dir
}

// List returns the preset names in sorted order.
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), Extension) {
			continue
		}
		// Only list what Load can open by name.
		name := strings.TrimSuffix(e.Name(), Extension)
		if _, err := l.path(name); err != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Load applies the named preset. On any error the current parameter
// values are left as they were.
func (l *Library) Load(name string) error {
	path, err := l.path(name)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
	}
	if err != nil {
		return fmt.Errorf("open preset %s: %w", name, err)
	}
	defer f.Close()

	n, err := l.states.Load(f)
	if err != nil {
		l.logger.Error("couldn't load preset %s: %v", name, err)
		return fmt.Errorf("load preset %s: %w", name, err)
	}
	l.logger.Info("loaded preset %s (%d parameters)", name, n)
	return nil
}

// Save writes the current parameter values under name, replacing any
// preset with that name. The file is written beside its destination
// and renamed into place.
func (l *Library) Save(name string) error {
	path, err := l.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(l.dir, ".preset-*")
	if err != nil {
		return fmt.Errorf("save preset %s: %w", name, err)
	}
	defer os.Remove(tmp.Name())

	if err := l.states.Save(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("save preset %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save preset %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save preset %s: %w", name, err)
	}

	l.logger.Info("saved preset %s", name)
	return nil
}

// Delete removes the named preset.
func (l *Library) Delete(name string) error {
	path, err := l.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrPresetNotFound, name)
		}
		return fmt.Errorf("delete preset %s: %w", name, err)
	}
	return nil
}

func (l *Library) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(l.dir, name+Extension), nil
}
