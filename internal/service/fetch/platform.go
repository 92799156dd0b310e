package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/scanforge/artifact-fetch/internal/domain"
)

// manifestList mirrors the subset of the tool's raw inspect output needed
// to pick a platform. A single-platform image has no manifests array.
type manifestList struct {
	Manifests []manifestEntry `json:"manifests"`
}

type manifestEntry struct {
	Platform *manifestPlatform `json:"platform"`
}

type manifestPlatform struct {
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	Variant      string `json:"variant"`
}

// ResolvePlatform inspects reference and returns the platform of the first
// manifest-list entry carrying one. The first-wins choice is deliberate; no
// ranking of candidate platforms is attempted. A nil Platform with nil
// error means the image is single-platform and no override flags apply.
func (s *Service) ResolvePlatform(ctx context.Context, reference string) (*domain.Platform, error) {
	skopeo, err := s.locateTool()
	if err != nil {
		return nil, err
	}

	args := []string{"inspect", "--insecure-policy", "--raw", "--no-creds", reference}
	s.logger.Info("inspecting image platforms",
		zap.String("command", commandLine(skopeo, args)))

	output, err := s.runner.Run(ctx, skopeo, args...)
	s.logger.Info("inspect output", zap.ByteString("output", output))
	if err != nil {
		return nil, &domain.RegistryInspectError{Reference: reference, Output: string(output), Err: err}
	}

	var list manifestList
	if err := json.Unmarshal(output, &list); err != nil {
		return nil, fmt.Errorf("parsing inspect output for %s: %w", reference, err)
	}

	for _, entry := range list.Manifests {
		if entry.Platform == nil {
			continue
		}
		platform := &domain.Platform{
			OS:           entry.Platform.OS,
			Architecture: entry.Platform.Architecture,
			Variant:      entry.Platform.Variant,
		}
		if platform.OS == "" {
			platform.OS = "linux"
		}
		if platform.Architecture == "" {
			platform.Architecture = "amd64"
		}
		return platform, nil
	}
	return nil, nil
}

// commandLine renders a command for audit logging.
func commandLine(name string, args []string) string {
	return name + " " + strings.Join(args, " ")
}
