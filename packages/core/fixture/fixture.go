package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// InputExt is the suffix of files fed to the script on stdin
	InputExt = ".stdin"
	// OutputExt is the suffix of files holding the expected stdout
	OutputExt = ".out"
)

// Fixture is a discovered input file and its expected-output counterpart
type Fixture struct {
	Name         string
	InputPath    string
	ExpectedPath string
}

// DirectoryReadError is returned when the fixture directory cannot be listed
type DirectoryReadError struct {
	Dir string
	Err error
}

func (e *DirectoryReadError) Error() string {
	return fmt.Sprintf("reading fixture directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryReadError) Unwrap() error { return e.Err }

// ExpectedPath returns the expected-output path for an input path
func ExpectedPath(inputPath string) string {
	return strings.TrimSuffix(inputPath, InputExt) + OutputExt
}

// Matches reports whether a directory entry name is an input fixture for
// the given script base name
func Matches(name, baseName string) bool {
	return strings.HasSuffix(name, InputExt) && strings.Contains(name, baseName)
}

// Discover lists the input fixtures in dir that belong to baseName, sorted by
// file name. Entries the listing fails on are skipped.
func Discover(dir, baseName string) ([]Fixture, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, &DirectoryReadError{Dir: dir, Err: err}
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil && len(entries) == 0 {
		return nil, &DirectoryReadError{Dir: dir, Err: err}
	}

	var fixtures []Fixture
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !Matches(name, baseName) {
			continue
		}
		input := filepath.Join(dir, name)
		fixtures = append(fixtures, Fixture{
			Name:         strings.TrimSuffix(name, InputExt),
			InputPath:    input,
			ExpectedPath: ExpectedPath(input),
		})
	}

	sort.Slice(fixtures, func(i, j int) bool {
		return fixtures[i].InputPath < fixtures[j].InputPath
	})

	return fixtures, nil
}
