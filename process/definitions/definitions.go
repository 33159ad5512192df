// Package definitions embeds the marketplace's standard transaction processes.
package definitions

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/amp-labs/txprocess/process"
)

// Canonical process names.
const (
	Purchase    = "default-purchase"
	Booking     = "default-booking"
	Inquiry     = "default-inquiry"
	Negotiation = "default-negotiation"
)

// Names lists the embedded processes in registration order.
var Names = []string{Purchase, Booking, Inquiry, Negotiation} //nolint:gochecknoglobals

//go:embed *.yaml
var files embed.FS

// FS exposes the embedded YAML files.
func FS() fs.FS {
	return files
}

// Load parses the embedded definitions, in the order of Names.
func Load() ([]*process.Definition, error) {
	defs := make([]*process.Definition, 0, len(Names))

	for _, name := range Names {
		def, err := process.LoadDefinitionFromFS(files, name+".yaml")
		if err != nil {
			return nil, fmt.Errorf("embedded process %s: %w", name, err)
		}

		defs = append(defs, def)
	}

	return defs, nil
}
