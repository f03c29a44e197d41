package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// collectFiles expands globs and walks directories, keeping files accepted
// by supported. A plain file named on the command line is always kept.
func collectFiles(args []string, supported func(string) bool) ([]string, error) {
	var files []string

	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("file not found: %s", arg)
		}

		literal := len(matches) == 1 && matches[0] == arg
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			switch {
			case info.IsDir():
				found, err := walkDir(match, supported)
				if err != nil {
					return nil, err
				}
				files = append(files, found...)
			case literal || supported(match):
				files = append(files, match)
			}
		}
	}

	return files, nil
}

func walkDir(dir string, supported func(string) bool) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && supported(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func isInfoFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".pdf":
		return true
	default:
		return false
	}
}
