package fetch

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/scanforge/artifact-fetch/internal/checksum"
	"github.com/scanforge/artifact-fetch/internal/domain"
)

// FetchHTTP downloads uri with a GET request into dir (a fresh temporary
// directory when dir is empty) and returns the verified Download. Any
// non-200 final status is a hard failure.
func (s *Service) FetchHTTP(ctx context.Context, uri, dir string) (*domain.Download, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", uri, err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.HTTPStatusError{URL: uri, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", uri, err)
	}

	filename := filenameFromDisposition(resp.Header.Get("Content-Disposition"))
	if filename == "" {
		// The response URL reflects the final location after redirects,
		// a more accurate source of the name than the requested URI.
		filename = path.Base(resp.Request.URL.Path)
	}
	if filename == "" || filename == "." || filename == "/" {
		return nil, fmt.Errorf("cannot determine a filename for %s", uri)
	}

	dir, err = s.ensureDir(dir)
	if err != nil {
		return nil, err
	}

	outputPath := filepath.Join(dir, filename)
	if err := os.WriteFile(outputPath, body, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", outputPath, err)
	}

	sums, err := checksum.File(outputPath)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("http fetch complete",
		zap.String("uri", uri),
		zap.String("path", outputPath),
		zap.Int("size", len(body)))

	return &domain.Download{
		URI:       uri,
		Directory: dir,
		Filename:  filename,
		Path:      outputPath,
		Size:      int64(len(body)),
		SHA1:      sums.SHA1,
		MD5:       sums.MD5,
	}, nil
}

// filenameFromDisposition extracts the filename parameter of a
// Content-Disposition header, or "" when absent or unparseable.
func filenameFromDisposition(header string) string {
	if header == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return params["filename"]
}
