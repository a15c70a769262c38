package main

import (
	"log"

	"github.com/shaharia-lab/stockroom/cmd"
)

func main() {
	templates, err := getTemplatesFS()
	if err != nil {
		log.Fatalf("failed to load web templates: %v", err)
	}
	cmd.TemplatesFS = templates
	cmd.Execute()
}
