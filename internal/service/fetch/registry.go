package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/scanforge/artifact-fetch/internal/checksum"
	"github.com/scanforge/artifact-fetch/internal/domain"
)

// archiveExtension suffixes the local archive produced by the copy tool.
const archiveExtension = ".tar"

// FetchRegistryImage copies the image at reference into a local
// docker-archive under dir (a fresh temporary directory when dir is empty)
// and returns the verified Download keyed by the original reference.
func (s *Service) FetchRegistryImage(ctx context.Context, reference, dir string) (*domain.Download, error) {
	if !strings.HasPrefix(reference, RegistryPrefix) {
		return nil, fmt.Errorf("reference %q does not use the %s scheme", reference, RegistryPrefix)
	}

	skopeo, err := s.locateTool()
	if err != nil {
		return nil, err
	}

	dir, err = s.ensureDir(dir)
	if err != nil {
		return nil, err
	}

	filename := safeName(strings.TrimPrefix(reference, RegistryPrefix)) + archiveExtension
	outputPath := filepath.Join(dir, filename)
	target := "docker-archive:" + outputPath

	args := []string{"copy", "--insecure-policy"}

	platform, err := s.ResolvePlatform(ctx, reference)
	if err != nil {
		return nil, err
	}
	if platform != nil {
		if platform.OS != "" {
			args = append(args, "--override-os="+platform.OS)
		}
		if platform.Architecture != "" {
			args = append(args, "--override-arch="+platform.Architecture)
		}
		if platform.Variant != "" {
			args = append(args, "--override-variant="+platform.Variant)
		}
	}
	args = append(args, reference, target)

	s.logger.Info("copying image",
		zap.String("command", commandLine(skopeo, args)))

	output, err := s.runner.Run(ctx, skopeo, args...)
	s.logger.Info("copy output", zap.ByteString("output", output))
	if err != nil {
		return nil, &domain.RegistryCopyError{Reference: reference, Output: string(output), Err: err}
	}

	// The tool writes the archive itself, so size comes from disk rather
	// than from anything held in memory.
	info, err := os.Stat(outputPath)
	if err != nil {
		return nil, fmt.Errorf("stat %s after copy: %w", outputPath, err)
	}

	sums, err := checksum.File(outputPath)
	if err != nil {
		return nil, err
	}

	return &domain.Download{
		URI:       reference,
		Directory: dir,
		Filename:  filename,
		Path:      outputPath,
		Size:      info.Size(),
		SHA1:      sums.SHA1,
		MD5:       sums.MD5,
	}, nil
}

// safeName collapses a registry reference into a filesystem-safe base name:
// lowercased, runs of non-alphanumerics become single underscores.
func safeName(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(s) {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if isAlnum {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
