package fetch

import (
	"os"
	"path/filepath"

	"github.com/scanforge/artifact-fetch/internal/domain"
)

// skopeoBinary is the executable name inside the located bin directory.
const skopeoBinary = "skopeo"

// locateTool resolves the full path of the skopeo executable through the
// location provider. A missing or non-directory location is fatal for the
// registry fetch attempt and explains how to remediate.
func (s *Service) locateTool() (string, error) {
	dir, err := s.locations.Locate(SkopeoBinDirKey)
	if err != nil {
		return "", &domain.ToolNotInstalledError{Key: SkopeoBinDirKey, Err: err}
	}

	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", &domain.ToolNotInstalledError{Key: SkopeoBinDirKey, Path: dir, Err: err}
	}

	return filepath.Join(dir, skopeoBinary), nil
}
