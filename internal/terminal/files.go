package terminal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/futig/docqa-client/internal/entity"
	"github.com/futig/docqa-client/internal/pkg/validator"
)

// loadFiles expands globs, checks every file before and after reading it, and
// returns the selection in argument order.
func loadFiles(v *validator.Validator, patterns []string) ([]entity.SelectedFile, error) {
	paths, err := expand(patterns)
	if err != nil {
		return nil, err
	}

	files := make([]entity.SelectedFile, 0, len(paths))
	for _, path := range paths {
		name := validator.SanitizeFilename(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFile, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", entity.ErrInvalidFile, path)
		}
		if err := v.ValidateMeta(name, info.Size()); err != nil {
			return nil, err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFile, err)
		}
		files = append(files, entity.NewSelectedFile(name, content))
	}

	if err := v.ValidateSelection(files); err != nil {
		return nil, err
	}
	return files, nil
}

func expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: bad pattern %q", entity.ErrInvalidFile, pattern)
		}
		if len(matches) == 0 {
			// not a glob or nothing matched, let Stat report it
			matches = []string{pattern}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}
	return paths, nil
}
