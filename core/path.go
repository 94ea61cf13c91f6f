/*
NAME
  path.go

DESCRIPTION
  path.go implements the path-validation security boundary of spec §6:
  rejecting traversal components, restricted system directories (both
  Unix and Windows), and symlinks that resolve into one. No teacher or
  pack file implements this; it is built directly from spec §6's
  explicit path list using only os and path/filepath from the
  standard library, since the retrieval pack carries no dedicated path-
  sandboxing dependency to wire it to.

LICENSE
  Copyright (C) 2026 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package core

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Errors returned by validatePath, per spec §6 and §7's "Input errors"
// family.
var (
	ErrPathTraversal  = errors.New("core: path contains a traversal component")
	ErrRestrictedPath = errors.New("core: path resolves into a restricted system directory")
	ErrFileTooLarge   = errors.New("core: file exceeds the size limit")
)

// restrictedUnixPrefixes and restrictedWindowsPrefixes are the absolute
// path prefixes spec §6 names explicitly.
var (
	restrictedUnixPrefixes = []string{
		"/System", "/usr", "/bin", "/sbin", "/etc", "/var", "/boot",
		"/lib", "/lib64", "/root", "/sys", "/proc", "/dev",
	}
	restrictedWindowsPrefixes = []string{
		`C:\Windows`, `C:\Program Files`, `C:\Program Files (x86)`, `C:\ProgramData`,
	}
)

// restrictedPrefixes returns the prefix list validatePath checks against:
// cfg's override if set, else the built-in spec §6 list (both Unix and
// Windows forms, since a file picked on one OS may still be inspected on
// another via a shared project directory).
func (cfg Config) restrictedPrefixes() []string {
	if len(cfg.RestrictedPathPrefixes) > 0 {
		return cfg.RestrictedPathPrefixes
	}
	all := make([]string, 0, len(restrictedUnixPrefixes)+len(restrictedWindowsPrefixes))
	all = append(all, restrictedUnixPrefixes...)
	all = append(all, restrictedWindowsPrefixes...)
	return all
}

// hasRestrictedPrefix reports whether p, after normalizing separators,
// falls under any of prefixes.
func hasRestrictedPrefix(p string, prefixes []string) bool {
	norm := filepath.ToSlash(p)
	for _, prefix := range prefixes {
		np := filepath.ToSlash(prefix)
		if norm == np || strings.HasPrefix(norm, np+"/") {
			return true
		}
	}
	return false
}

// validatePath implements spec §6's path-validation security boundary:
// reject `..` components outright, reject paths (and their resolved
// symlink targets) under a restricted system directory. File size is
// checked separately by validateFileSize. Returns the cleaned, absolute
// path on success.
func validatePath(path string, cfg Config) (string, error) {
	if path == "" {
		return "", errors.Wrap(ErrPathTraversal, "empty path")
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return "", errors.Wrapf(ErrPathTraversal, "%q", path)
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %q", path)
	}
	clean := filepath.Clean(abs)

	prefixes := cfg.restrictedPrefixes()
	if hasRestrictedPrefix(clean, prefixes) {
		return "", errors.Wrapf(ErrRestrictedPath, "%q", clean)
	}

	resolved, err := filepath.EvalSymlinks(clean)
	if err == nil && hasRestrictedPrefix(resolved, prefixes) {
		return "", errors.Wrapf(ErrRestrictedPath, "%q (resolved from %q)", resolved, clean)
	}
	// A missing file (err != nil, typically os.ErrNotExist) is not itself
	// a path-validation failure; it surfaces later as an open/stat error
	// when the caller actually reads the file.

	return clean, nil
}

// validateFileSize rejects files over cfg's size cap (default 2 GiB),
// per spec §5/§6.
func validateFileSize(path string, cfg Config) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, errors.Wrapf(err, "stat %q", path)
	}
	size := info.Size()
	if size > cfg.maxFileSizeOrDefault() {
		return size, errors.Wrapf(ErrFileTooLarge, "%q is %d bytes", path, size)
	}
	return size, nil
}
