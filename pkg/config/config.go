// Package config loads YAML profiles that pin down how an input should
// be decoded, so repeated conversions don't need the same flags every
// time.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/seqtab/seqtab/pkg/errors"
)

// ProfileSuffix is appended to an input path to find its profile.
const ProfileSuffix = ".seqtab.yaml"

// Profile holds per-input decoding settings. Zero values mean "decide
// automatically".
type Profile struct {
	// Format forces a parser by registry name.
	Format string `yaml:"format,omitempty"`
	// NoDecompress classifies compressed input without unwrapping it.
	NoDecompress bool `yaml:"no_decompress,omitempty"`
	// Output is the default destination path for dumped records.
	Output string `yaml:"output,omitempty"`
	// LogLevel overrides the CLI log level (debug, info, warn, error).
	LogLevel string `yaml:"log_level,omitempty"`
}

// Load reads a profile from path.
func Load(path string) (Profile, error) {
	var p Profile
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, errors.Wrapf(err, "parsing profile %s", path)
	}
	return p, nil
}

// Save writes a profile next to the input it describes.
func Save(path string, p Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Find looks up the profile for an input: first <input>.seqtab.yaml
// beside the input, then .seqtab.yaml in the input's directory. It
// returns a zero profile and empty path when neither exists.
func Find(input string) (Profile, string, error) {
	candidates := []string{
		input + ProfileSuffix,
		filepath.Join(filepath.Dir(input), ProfileSuffix),
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		p, err := Load(path)
		if err != nil {
			return Profile{}, path, err
		}
		return p, path, nil
	}
	return Profile{}, "", nil
}
