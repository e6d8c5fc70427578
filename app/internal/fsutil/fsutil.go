// Package fsutil holds the download directory layout helpers.
package fsutil

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

var forbiddenNames = regexp.MustCompile(`[/\\<>:"|?*\x00-\x1f]`)

// ExpandHome replaces a leading "~" with the current user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// EnsureDir creates path and its parents when missing and returns it.
func EnsureDir(path string) (string, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", err
	}
	return path, nil
}

// SanitizeFilename makes a title safe to use as a file name.
func SanitizeFilename(name string) string {
	name = forbiddenNames.ReplaceAllString(name, "_")
	name = strings.Trim(strings.TrimSpace(name), ".")
	if name == "" {
		return "untitled"
	}
	return name
}

// SwapExt returns the path inside dir named after src with its extension
// replaced by ext.
func SwapExt(dir, src, ext string) string {
	base := filepath.Base(src)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, base+ext)
}

// WriteFile copies r into path. Data is written to a ".part" sibling first and
// renamed on success so a failed download never leaves a truncated file under
// the final name.
func WriteFile(path string, r io.Reader) (int64, error) {
	if _, err := EnsureDir(filepath.Dir(path)); err != nil {
		return 0, err
	}

	part := path + ".part"

	file, err := os.Create(part)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(file, r)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if rerr := os.Remove(part); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			slog.Warn("failed to remove partial file", slog.String("path", part), slog.Any("err", rerr))
		}
		return n, err
	}

	return n, os.Rename(part, path)
}

// FreeSpace reports the bytes available to the current user on the file
// system holding path.
func FreeSpace(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}
