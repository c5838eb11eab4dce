// Package snapshot lists simulation snapshot files in temporal order.
//
// Capture pipelines name their outputs "<prefix>_<step>.vtk" with a
// monotonically increasing step counter and no zero padding, so plain
// lexicographic order puts "f_10.vtk" before "f_2.vtk". Listing here sorts
// by the integer step parsed from the file name instead.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// File is one snapshot on disk.
type File struct {
	Path  string // Full path.
	Stem  string // File name without directory and suffix.
	Index int    // Frame index parsed from the stem.
}

// List returns the files in dir whose name ends in exactly suffix, sorted
// ascending by the frame index embedded in each name. The index is the last
// splitToken-delimited segment of the stem, parsed as a base-10 integer.
//
// A missing directory and a stem whose index segment is not an integer are
// both fatal: the second signals a misnamed file, which would silently
// corrupt frame order if skipped. The sort is stable, so duplicate indices
// keep their enumeration order.
func List(dir, suffix, splitToken string) ([]File, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("snapshot directory %q does not exist", dir)
		}
		return nil, fmt.Errorf("snapshot directory %q: %w", dir, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list snapshot directory %q: %w", dir, err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		// Exact, case-sensitive suffix match: ".VTK" and ".vtk.bak" are
		// both skipped for suffix ".vtk".
		if !strings.HasSuffix(name, suffix) || name == suffix {
			continue
		}
		stem := strings.TrimSuffix(name, suffix)
		idx, err := parseIndex(stem, splitToken)
		if err != nil {
			return nil, fmt.Errorf("snapshot %q: %w", name, err)
		}
		files = append(files, File{
			Path:  filepath.Join(dir, name),
			Stem:  stem,
			Index: idx,
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].Index < files[j].Index
	})
	return files, nil
}

// parseIndex extracts the frame index from a file stem: the last
// splitToken-delimited segment, parsed as a base-10 integer.
func parseIndex(stem, splitToken string) (int, error) {
	segments := strings.Split(stem, splitToken)
	last := segments[len(segments)-1]
	idx, err := strconv.Atoi(last)
	if err != nil {
		return 0, fmt.Errorf("frame index %q is not an integer", last)
	}
	return idx, nil
}
