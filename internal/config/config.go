// Package config loads the optional convertkit.toml file that supplies
// defaults for the conversion pipeline's tunables. Command-line flags always
// win over file values.
package config

import (
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// DefaultPath is the conventional location of the config file, relative to
// the working directory.
const DefaultPath = "convertkit.toml"

// File is the decoded config file. Zero values mean "not set": the app
// layers flags over these, and the pipeline's own defaults fill whatever
// remains.
type File struct {
	Patterns      []string `toml:"patterns"`
	Classes       []string `toml:"classes"`
	OutputName    string   `toml:"output_name"`
	ConvertedName string   `toml:"converted_name"`
	AuditName     string   `toml:"audit_name"`
	MaxPasses     int      `toml:"max_passes"`
	ReportURL     string   `toml:"report_url"`
}

// Load reads the config file at path. A missing file is not an error; the
// caller gets nil and runs on defaults.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var f File
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}
