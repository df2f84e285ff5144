package repository

import (
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/roster/core/internal/domain/entities"
)

// ErrNotRoster means a file exists but its header is not the roster header.
var ErrNotRoster = errors.New("file exists but is not a roster CSV")

// Location is the outcome of resolving which roster file to use.
type Location struct {
	Path  string
	Found bool
}

// Discover returns the first *.csv file in dir, in lexical order, that is
// empty or whose header matches the roster columns. When none qualifies it
// returns dir/defaultName, which must not exist or must itself look like a
// roster; otherwise ErrNotRoster.
func Discover(fs afero.Fs, dir, defaultName string) (Location, error) {
	matches, err := afero.Glob(fs, filepath.Join(dir, "*.csv"))
	if err != nil {
		return Location{}, fmt.Errorf("search %s for roster files: %w", dir, err)
	}

	for _, m := range matches {
		if ok, err := looksLikeRoster(fs, m); err == nil && ok {
			return Location{Path: m, Found: true}, nil
		}
	}

	path := filepath.Join(dir, defaultName)
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return Location{}, fmt.Errorf("check %s: %w", path, err)
	}
	if !exists {
		return Location{Path: path}, nil
	}
	// Saving would overwrite whatever the existing file holds.
	ok, err := looksLikeRoster(fs, path)
	if err != nil {
		return Location{}, fmt.Errorf("inspect %s: %w", path, err)
	}
	if !ok {
		return Location{}, fmt.Errorf("%s: %w", path, ErrNotRoster)
	}
	return Location{Path: path, Found: true}, nil
}

func looksLikeRoster(fs afero.Fs, path string) (bool, error) {
	info, err := fs.Stat(path)
	if err != nil || info.IsDir() {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}

	f, err := fs.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	header, err := reader.Read()
	if err != nil {
		return false, err
	}
	if len(header) != len(entities.Fields) {
		return false, nil
	}
	for i, name := range entities.Fields {
		got := strings.TrimSpace(header[i])
		if i == 0 {
			got = strings.TrimPrefix(got, "\ufeff")
		}
		if got != name {
			return false, nil
		}
	}
	return true, nil
}
