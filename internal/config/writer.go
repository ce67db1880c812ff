package config

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// WriteDefault writes the built-in configuration as TOML.
func WriteDefault(w io.Writer) error {
	return Write(w, Default())
}

// Write writes cfg as TOML.
func Write(w io.Writer, cfg *Config) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	return enc.Encode(cfg)
}

// WriteDefaultFile writes the built-in configuration to path, creating
// parent directories. An existing file is kept unless force is set.
func WriteDefaultFile(fsys afero.Fs, path string, force bool) error {
	if !force {
		exists, err := afero.Exists(fsys, path)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", ErrFileExists, path)
		}
	}

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := fsys.Create(path)
	if err != nil {
		return err
	}
	if err := WriteDefault(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
