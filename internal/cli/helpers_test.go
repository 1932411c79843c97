package cli_test

import (
	"os"
	"path/filepath"
)

func getFixturePath(name string) string {
	// Find repo root
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		dir = filepath.Dir(dir)
	}
	return filepath.Join(dir, "testdata", "fixtures", name+".yml")
}
