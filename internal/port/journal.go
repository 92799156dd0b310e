package port

import "github.com/scanforge/artifact-fetch/internal/domain"

// Journal records fetch outcomes for operator auditing. Journal failures
// must never fail a fetch; callers log and continue.
type Journal interface {
	RecordDownload(d *domain.Download) error
	RecordFailure(uri string, reason string) error
	RecentEntries(limit int) ([]domain.JournalEntry, error)
	Close() error
}
