// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// DBFileName is the database file inside a data directory.
const DBFileName = "things.db"

// ResolveDBPath resolves the database file from user input.
//
//   - "" -> ".thingdock/things.db"
//   - "/path/to/model.db" (a .db file, existing or not) -> unchanged
//   - "/path/to/project" (a directory holding things.db) -> "/path/to/project/things.db"
//   - "/path/to/project" (any other directory) -> "/path/to/project/.thingdock/things.db"
//   - "~/models/x.db" -> expanded against the home directory
func ResolveDBPath(path string) string {
	if path == "" {
		return filepath.Join(".thingdock", DBFileName)
	}
	path = filepath.Clean(ExpandHome(path))
	if strings.EqualFold(filepath.Ext(path), ".db") {
		return path
	}
	if _, err := os.Stat(filepath.Join(path, DBFileName)); err == nil {
		return filepath.Join(path, DBFileName)
	}
	return filepath.Join(path, ".thingdock", DBFileName)
}

// ExpandHome replaces a leading "~/" with the user's home directory. The path
// is returned unchanged when there is no home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
