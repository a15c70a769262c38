package cmd

import "io/fs"

// TemplatesFS is set by main() before Execute() is called.
// It holds the HTML templates for the web command.
var TemplatesFS fs.FS
