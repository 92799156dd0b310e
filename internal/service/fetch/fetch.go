// Package fetch downloads remote artifacts into local storage: plain files
// over HTTP(S) and container images from OCI/Docker registries via the
// external skopeo tool. Every fetch either yields a fully verified local
// file or a captured error; a batch never lets one item abort the rest.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/scanforge/artifact-fetch/internal/domain"
	"github.com/scanforge/artifact-fetch/internal/port"
)

// RegistryPrefix is the URI scheme routed to the registry fetcher. All
// other URIs take the HTTP path, where genuinely invalid ones fail there.
const RegistryPrefix = "docker://"

// SkopeoBinDirKey is the fixed location-provider identifier for the
// directory holding the skopeo executable.
const SkopeoBinDirKey = "container.skopeo.bindir"

// Config carries the tunable parts of the fetch service.
type Config struct {
	// HTTPClient performs plain fetches. Defaults to a client with a
	// five minute timeout.
	HTTPClient *http.Client

	// UserAgent is sent on HTTP fetches when non-empty.
	UserAgent string

	// DestinationDir receives all downloads when set. When empty, each
	// fetch creates its own temporary directory.
	DestinationDir string

	// Workers bounds batch concurrency. Values below 2 keep the batch
	// sequential in input order.
	Workers int
}

// Service fetches artifacts. All dependencies are injected so tests can
// substitute fakes for the subprocess, tool location, and journal.
type Service struct {
	client    *http.Client
	runner    port.CommandRunner
	locations port.LocationProvider
	journal   port.Journal
	logger    *zap.Logger
	userAgent string
	destDir   string
	workers   int
}

// New creates a fetch Service. journal may be nil to disable journaling.
func New(
	cfg *Config,
	runner port.CommandRunner,
	locations port.LocationProvider,
	journal port.Journal,
	logger *zap.Logger,
) *Service {
	if cfg == nil {
		cfg = &Config{}
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Service{
		client:    client,
		runner:    runner,
		locations: locations,
		journal:   journal,
		logger:    logger,
		userAgent: cfg.UserAgent,
		destDir:   cfg.DestinationDir,
		workers:   workers,
	}
}

// NewHTTPClient returns the client used for plain fetches, bounded by an
// overall per-request timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Failure pairs an input URI with the error that failed it.
type Failure struct {
	URI string
	Err error
}

// Result partitions a batch: every input URI lands in exactly one of
// Downloads or Failures, each preserving the input order of its subset.
type Result struct {
	Downloads []domain.Download
	Failures  []Failure
}

// FailedURIs returns the failed input URIs in order.
func (r *Result) FailedURIs() []string {
	uris := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		uris = append(uris, f.URI)
	}
	return uris
}

// Err returns the per-item failures aggregated into one error, or nil when
// everything succeeded. The batch itself never fails; this is diagnostic.
func (r *Result) Err() error {
	var merr *multierror.Error
	for _, f := range r.Failures {
		merr = multierror.Append(merr, fmt.Errorf("%s: %w", f.URI, f.Err))
	}
	return merr.ErrorOrNil()
}

// SplitURLs turns a whitespace-delimited string (one URI per line or
// space-separated) into discrete URIs, discarding empty tokens.
func SplitURLs(s string) []string {
	return strings.Fields(s)
}

type fetcherKind int

const (
	kindHTTP fetcherKind = iota
	kindRegistry
)

func (k fetcherKind) String() string {
	if k == kindRegistry {
		return "registry"
	}
	return "http"
}

// dispatch selects the fetcher for a URI. It is pure and total: only the
// registry prefix is recognized, everything else falls through to HTTP.
func dispatch(uri string) fetcherKind {
	if strings.HasPrefix(uri, RegistryPrefix) {
		return kindRegistry
	}
	return kindHTTP
}

type itemResult struct {
	download *domain.Download
	err      error
}

func (s *Service) fetchItem(ctx context.Context, uri string) itemResult {
	kind := dispatch(uri)
	s.logger.Info("fetching uri",
		zap.String("uri", uri),
		zap.String("fetcher", kind.String()))

	var (
		download *domain.Download
		err      error
	)
	switch kind {
	case kindRegistry:
		download, err = s.FetchRegistryImage(ctx, uri, s.destDir)
	default:
		download, err = s.FetchHTTP(ctx, uri, s.destDir)
	}
	return itemResult{download: download, err: err}
}

// FetchURLs fetches every URI, isolating failures per item: an error from
// one fetch is recorded against its URI and the batch continues. The two
// result lists partition the input, each in input order.
func (s *Service) FetchURLs(ctx context.Context, uris []string) *Result {
	result := &Result{}
	if len(uris) == 0 {
		return result
	}

	results := make([]itemResult, len(uris))
	if s.workers <= 1 {
		for i, uri := range uris {
			results[i] = s.fetchItem(ctx, uri)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < s.workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = s.fetchItem(ctx, uris[i])
				}
			}()
		}
		for i := range uris {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	for i, uri := range uris {
		r := results[i]
		if r.err != nil {
			s.logger.Warn("fetch failed",
				zap.String("uri", uri),
				zap.Error(r.err))
			s.journalFailure(uri, r.err)
			result.Failures = append(result.Failures, Failure{URI: uri, Err: r.err})
			continue
		}
		s.journalDownload(r.download)
		result.Downloads = append(result.Downloads, *r.download)
	}
	return result
}

func (s *Service) journalDownload(d *domain.Download) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordDownload(d); err != nil {
		s.logger.Warn("failed to journal download",
			zap.String("uri", d.URI),
			zap.Error(err))
	}
}

func (s *Service) journalFailure(uri string, cause error) {
	if s.journal == nil {
		return
	}
	if err := s.journal.RecordFailure(uri, cause.Error()); err != nil {
		s.logger.Warn("failed to journal fetch failure",
			zap.String("uri", uri),
			zap.Error(err))
	}
}

// ensureDir returns dir after creating it, or a fresh temporary directory
// when dir is empty.
func (s *Service) ensureDir(dir string) (string, error) {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "fetch-")
		if err != nil {
			return "", fmt.Errorf("creating download directory: %w", err)
		}
		return tmp, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download directory %s: %w", dir, err)
	}
	return dir, nil
}
