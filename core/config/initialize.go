package config

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// Initialize writes the default configuration into dir. An existing
// configuration is left untouched.
func Initialize(fsys afero.Fs, dir string, logger *log.Logger) error {
	if err := fsys.MkdirAll(dir, 0700); err != nil {
		return err
	}

	path := filepath.Join(dir, ConfigurationName)
	switch _, err := fsys.Stat(path); {
	case err == nil:
		logger.Printf("Configuration already exists: %s\n", path)
		return nil
	case !os.IsNotExist(err):
		return err
	}

	if err := afero.WriteFile(fsys, path, defaultConfigData, fs.FileMode(0600)); err != nil {
		return fmt.Errorf("couldn't write configuration: %w", err)
	}
	logger.Printf("Wrote configuration: %s\n", path)
	return nil
}
