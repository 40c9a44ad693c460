package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
)

// NameGenerator produces unique plot names. Names must sort in creation order
// for pruning to remove the oldest plots first.
type NameGenerator interface {
	Generate() string
}

// UUIDv7Names generates time-ordered UUIDv7 strings.
type UUIDv7Names struct{}

// Generate returns a new UUIDv7. It panics if the random source fails.
func (UUIDv7Names) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

const (
	plotPrefix = "plot_"
	plotSuffix = ".png"
)

// Archive writes rendered plots to a directory and keeps at most Keep of them.
// An Archive with an empty Dir does nothing. Archive is not safe for
// concurrent use.
type Archive struct {
	Dir   string
	Keep  int
	Names NameGenerator
}

// NewArchive returns an Archive naming plots with UUIDv7.
func NewArchive(dir string, keep int) *Archive {
	return &Archive{Dir: dir, Keep: keep, Names: UUIDv7Names{}}
}

// Enabled reports whether plots are written.
func (a *Archive) Enabled() bool {
	return a != nil && a.Dir != ""
}

// Save writes data as a new plot and returns its path. When Keep > 0 the oldest
// plots beyond Keep are removed afterwards. A disabled archive returns "".
func (a *Archive) Save(data []byte) (string, error) {
	if !a.Enabled() {
		return "", nil
	}
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create plot dir: %w", err)
	}

	names := a.Names
	if names == nil {
		names = UUIDv7Names{}
	}
	path := filepath.Join(a.Dir, plotPrefix+names.Generate()+plotSuffix)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write plot: %w", err)
	}

	if a.Keep > 0 {
		if err := a.prune(); err != nil {
			return path, err
		}
	}
	return path, nil
}

// List returns the archived plot paths, oldest first.
func (a *Archive) List() ([]string, error) {
	if !a.Enabled() {
		return nil, nil
	}
	matches, err := filepath.Glob(filepath.Join(a.Dir, plotPrefix+"*"+plotSuffix))
	if err != nil {
		return nil, fmt.Errorf("list plots: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

func (a *Archive) prune() error {
	plots, err := a.List()
	if err != nil {
		return err
	}
	for len(plots) > a.Keep {
		if err := os.Remove(plots[0]); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("prune plot %s: %w", filepath.Base(plots[0]), err)
		}
		plots = plots[1:]
	}
	return nil
}
