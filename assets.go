//go:build !dev

package main

import (
	"embed"
	"io/fs"
)

//go:embed web/templates
var embeddedTemplates embed.FS

func getTemplatesFS() (fs.FS, error) {
	return fs.Sub(embeddedTemplates, "web/templates")
}
