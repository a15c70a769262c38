//go:build dev

package main

import (
	"io/fs"
	"os"
)

// getTemplatesFS reads templates from disk in dev mode so edits show up
// without a rebuild.
func getTemplatesFS() (fs.FS, error) {
	return os.DirFS("web/templates"), nil
}
