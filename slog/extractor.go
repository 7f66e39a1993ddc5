package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/obras"
)

// Ensure LoggingDetailExtractor implements obras.DetailExtractor.
var _ obras.DetailExtractor = (*LoggingDetailExtractor)(nil)

// LoggingDetailExtractor wraps a DetailExtractor with debug logging.
type LoggingDetailExtractor struct {
	next   obras.DetailExtractor
	logger *slog.Logger
}

// NewLoggingDetailExtractor creates a new LoggingDetailExtractor.
func NewLoggingDetailExtractor(next obras.DetailExtractor, logger *slog.Logger) *LoggingDetailExtractor {
	return &LoggingDetailExtractor{next: next, logger: logger}
}

// ExtractDetail delegates to the wrapped extractor and logs what was found.
func (e *LoggingDetailExtractor) ExtractDetail(html string) (detail *obras.ProjectDetail, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin)}
		if detail != nil {
			attrs = append(attrs,
				"bpin", detail.BPIN,
				"locations", len(detail.Locations),
			)
		}
		if err != nil {
			attrs = append(attrs, "err", err.Error())
		}
		e.logger.Info("extract detail", attrs...)
	}(time.Now())
	return e.next.ExtractDetail(html)
}
