package emulator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrNoSaves is returned when a cartridge has no save states.
var ErrNoSaves = errors.New("emulator: no save states")

const saveExt = ".state"

// Saves is a folder of save states, with a subfolder for every
// cartridge title. Each state is named after the time it was
// taken, so that the newest can be found again:
//
//	<dir>/<title>/<unix nanoseconds>.state
type Saves struct {
	dir string
}

// NewSaves returns the save folder rooted at dir.
func NewSaves(dir string) *Saves {
	return &Saves{dir: dir}
}

func (s *Saves) folder(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "untitled"
	}
	return filepath.Join(s.dir, strings.ReplaceAll(title, string(filepath.Separator), "_"))
}

// Write stores state for title, and returns the path written to.
// The state is written to a temporary file first, which is renamed
// once complete.
func (s *Saves) Write(title string, state []byte) (string, error) {
	folder := s.folder(title)
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return "", err
	}

	ts := time.Now().UnixNano()
	path := filepath.Join(folder, strconv.FormatInt(ts, 10)+saveExt)
	for {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			break
		}
		ts++
		path = filepath.Join(folder, strconv.FormatInt(ts, 10)+saveExt)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, state, 0o644); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", err
	}
	return path, nil
}

// List returns the save states stored for title, newest first.
func (s *Saves) List(title string) ([]string, error) {
	entries, err := os.ReadDir(s.folder(title))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	type save struct {
		path string
		ts   int64
	}
	var saves []save
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != saveExt {
			continue
		}
		ts, err := parseTimestamp(entry.Name())
		if err != nil {
			continue
		}
		saves = append(saves, save{filepath.Join(s.folder(title), entry.Name()), ts})
	}
	sort.Slice(saves, func(i, j int) bool {
		return saves[i].ts > saves[j].ts
	})

	paths := make([]string, len(saves))
	for i, save := range saves {
		paths[i] = save.path
	}
	return paths, nil
}

// Latest returns the newest save state stored for title.
func (s *Saves) Latest(title string) ([]byte, error) {
	paths, err := s.List(title)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w for %q", ErrNoSaves, title)
	}
	return os.ReadFile(paths[0])
}

func parseTimestamp(name string) (int64, error) {
	return strconv.ParseInt(strings.TrimSuffix(name, saveExt), 10, 64)
}
