package tzdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonwraymond/tzresolve/class"
	"github.com/jonwraymond/tzresolve/zone"
)

// ErrBadName indicates a zone name that cannot map to a database path.
var ErrBadName = errors.New("tzdb: invalid zone name")

// PathFor maps a zone name to its file under root: "/"-separated name
// segments become nested path segments. Names with empty, "." or ".."
// segments are rejected so a lookup can never escape the root.
func PathFor(root, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrBadName)
	}
	segments := strings.Split(name, "/")
	for _, s := range segments {
		if s == "" || s == "." || s == ".." {
			return "", fmt.Errorf("%w: %q", ErrBadName, name)
		}
	}
	return filepath.Join(root, filepath.Join(segments...)), nil
}

// Known reports whether a compiled entry for name exists under root. This is
// the "known compiled zone" test; it does not decode the file.
func Known(root, name string) bool {
	path, err := PathFor(root, name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Empty reports whether root is missing or contains no entries, i.e. the
// database build step has not run.
func Empty(root string) bool {
	entries, err := os.ReadDir(root)
	if err != nil {
		return true
	}
	return len(entries) == 0
}

// Install encodes z under its name in the database rooted at root, creating
// intermediate directories as needed.
func Install(root, name string, z zone.Zone, c class.Class) error {
	path, err := PathFor(root, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, z, c); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
