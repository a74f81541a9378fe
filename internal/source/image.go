package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".bmp", ".gif"}

// ImageSource serves encoded image files from a directory or a single path.
type ImageSource struct {
	paths []string
}

func NewImageSource(path string) (*ImageSource, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	var paths []string
	if fi.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if isImage(entry.Name()) {
				paths = append(paths, filepath.Join(path, entry.Name()))
			}
		}
		sort.Strings(paths)
		if len(paths) == 0 {
			return nil, fmt.Errorf("no images found in %s", path)
		}
	} else {
		paths = []string{path}
	}

	return &ImageSource{paths: paths}, nil
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range imageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func (s *ImageSource) Count() int {
	return len(s.paths)
}

func (s *ImageSource) Name(index int) string {
	return filepath.Base(s.paths[index])
}

func (s *ImageSource) Bytes(index int) ([]byte, error) {
	return os.ReadFile(s.paths[index])
}

func (s *ImageSource) Close() error {
	return nil
}
