package ioutils

import "os"

// EnsureDir creates a directory and all parent directories if they
// don't exist. Directories are created with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists reports whether a regular file or directory exists at
// path. Existence is the download deduplication signal: a present
// target file means the episode is treated as already handled.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
