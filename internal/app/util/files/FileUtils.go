package files

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"rapidscribe/internal/app/model"
)

func GetProjectRoot() (string, error) {
	_, filename, _, _ := runtime.Caller(0)
	return findGoModRoot(filename)
}

// ResolveAudioPath joins a client-supplied relative path under the audio root
// and rejects anything that escapes it.
func ResolveAudioPath(audioRoot, rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("audio path is empty")
	}
	if filepath.IsAbs(rel) {
		return "", fmt.Errorf("audio path must be relative: %s", rel)
	}
	full := filepath.Join(audioRoot, filepath.Clean(rel))
	absRoot, err := filepath.Abs(audioRoot)
	if err != nil {
		return "", err
	}
	absFull, err := filepath.Abs(full)
	if err != nil {
		return "", err
	}
	if absFull != absRoot && !strings.HasPrefix(absFull, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("audio path escapes audio root: %s", rel)
	}
	return full, nil
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ListFilesByExt returns files in inputDir whose extension matches one of
// exts (case-insensitive, with leading dot), sorted by modification time.
func ListFilesByExt(inputDir string, exts ...string) ([]model.FileInfo, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	match := make(map[string]bool, len(exts))
	for _, e := range exts {
		match[strings.ToLower(e)] = true
	}

	var fileInfos []model.FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !match[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		fileInfos = append(fileInfos, model.FileInfo{
			FullPath: filepath.Join(inputDir, entry.Name()),
			Name:     entry.Name(),
			Size:     info.Size(),
			ModTime:  info.ModTime(),
		})
	}

	sort.Slice(fileInfos, func(i, j int) bool {
		return fileInfos[i].ModTime.Before(fileInfos[j].ModTime)
	})

	return fileInfos, nil
}

// ReadTextFile reads a file and returns its trimmed text content.
func ReadTextFile(filePath string) (string, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(content)), nil
}

func findGoModRoot(path string) (string, error) {
	for {
		if _, err := os.Stat(filepath.Join(path, "go.mod")); err == nil {
			return path, nil
		}
		newPath := filepath.Dir(path)
		if newPath == path {
			return "", fmt.Errorf("go.mod not found")
		}
		path = newPath
	}
}
