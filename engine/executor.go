package engine

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spektr-org/dashboards/internal/logger"
)

// ============================================================================
// EXECUTOR — Filter stage runner + placeholder resolution
// ============================================================================
// Entry point: Execute(base, preds, opts...)
//
// Pipeline:
//   1. Bind every predicate against the unfiltered base
//   2. Single pass → SubView in base order
//   3. Log the run (run id, predicate list, row counts, duration)
//
// Derivation happens before Execute (the base is already derived);
// aggregation happens after, on Execution.Base or Execution.View.
// ============================================================================

// Execution is the outcome of one filter run.
type Execution struct {
	RunID      string
	Base       RecordView
	View       RecordView
	Predicates []string
	Duration   time.Duration
}

// Execute applies preds to base and records what happened.
func Execute(base RecordView, preds []Predicate, opts ...Option) *Execution {
	cfg := applyOptions(opts)

	runID := cfg.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Logger
	}
	log = log.With(slog.String("pipeline", cfg.Name), slog.String("run_id", runID))

	names := make([]string, len(preds))
	for i, p := range preds {
		names[i] = p.String()
	}

	log.Debug("filter stage started",
		slog.Int("records", base.Len()),
		slog.Any("predicates", names),
	)

	start := time.Now()
	view := Apply(base, preds...)
	elapsed := time.Since(start)

	log.Debug("filter stage completed",
		slog.Int("records_in", base.Len()),
		slog.Int("records_out", view.Len()),
		slog.Duration("duration", elapsed),
	)

	return &Execution{
		RunID:      runID,
		Base:       base,
		View:       view,
		Predicates: names,
		Duration:   elapsed,
	}
}

// Filtered reports whether the filters removed any rows.
func (e *Execution) Filtered() bool {
	return e.View.Len() < e.Base.Len()
}

// ============================================================================
// PLACEHOLDER RESOLUTION
// ============================================================================

// ResolvePlaceholders substitutes run values into a caption template.
// Supported: {count}, {total}, {removed}, {filters}.
func ResolvePlaceholders(template string, e *Execution) string {
	if template == "" {
		return fmt.Sprintf("Showing %d of %d records.", e.View.Len(), e.Base.Len())
	}

	filters := "none"
	if len(e.Predicates) > 0 {
		filters = strings.Join(e.Predicates, "; ")
	}

	replacements := map[string]string{
		"{count}":   fmt.Sprintf("%d", e.View.Len()),
		"{total}":   fmt.Sprintf("%d", e.Base.Len()),
		"{removed}": fmt.Sprintf("%d", e.Base.Len()-e.View.Len()),
		"{filters}": filters,
	}

	result := template
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}

	return stripUnresolvedPlaceholders(result)
}

var placeholderRegex = regexp.MustCompile(`\{[a-z_]+\}`)

func stripUnresolvedPlaceholders(text string) string {
	cleaned := placeholderRegex.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, "  ", " ")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return text
	}
	return cleaned
}
