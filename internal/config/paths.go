package config

import (
	"os"
	"path/filepath"
)

const defaultBaseDir = ".chatgate"

// Paths holds resolved filesystem paths for chatgate data.
type Paths struct {
	Base   string // ~/.chatgate
	Config string // ~/.chatgate/config.yaml
	Data   string // ~/.chatgate/data
	Logs   string // ~/.chatgate/logs
}

// ResolvePaths computes all standard paths from the home directory.
// If CHATGATE_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("CHATGATE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:   base,
		Config: filepath.Join(base, "config.yaml"),
		Data:   filepath.Join(base, "data"),
		Logs:   filepath.Join(base, "logs"),
	}, nil
}

// EnsureDirs creates all standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Data, p.Logs} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}
