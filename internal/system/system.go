package system

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// InitResourceLimits raises the open-file limit; a batch run holds the
// model, the report and a handful of images open at once per worker.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Could not read file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Could not raise file limit: %v", err)
	}
}

// FindLatestModel returns the newest .onnx file in dir.
func FindLatestModel(dir string) (string, error) {
	return findLatest(dir, []string{".onnx"})
}

// FindLatestInput returns the newest screenable file in dir: a PDF or an
// image.
func FindLatestInput(dir string) (string, error) {
	return findLatest(dir, []string{".pdf", ".jpg", ".jpeg", ".png", ".webp", ".bmp", ".gif"})
}

func findLatest(dir string, extensions []string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := strings.ToLower(f.Name())
		matched := false
		for _, ext := range extensions {
			if strings.HasSuffix(name, ext) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no matching files (%s) in %s",
			strings.Join(extensions, ", "), dir)
	}

	return latestFile, nil
}
