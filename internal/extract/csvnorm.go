package extract

import (
	"context"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"QuizSolver/internal/decode"
	"QuizSolver/internal/domain"
	"QuizSolver/internal/ports"
)

var (
	nonWordExpr    = regexp.MustCompile(`[^\w\s]`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
)

// dateLayouts is the fixed ordered list of patterns tried before
// free-form inference.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
	"01-02-2006",
}

var fallbackDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006.01.02",
}

// CSVNormalizeExtractor downloads a CSV and answers with its rows
// normalized to the canonical {id, name, joined, value} shape, sorted
// by ascending id.
type CSVNormalizeExtractor struct {
	downloader ports.Downloader
	logger     *slog.Logger
}

func NewCSVNormalizeExtractor(downloader ports.Downloader, logger *slog.Logger) *CSVNormalizeExtractor {
	return &CSVNormalizeExtractor{downloader: downloader, logger: logger}
}

func (e *CSVNormalizeExtractor) Category() domain.Category { return domain.CategoryCSVNormalize }

func (e *CSVNormalizeExtractor) Extract(ctx context.Context, task domain.TaskDescriptor, page domain.QuizPage) (domain.AnswerResult, bool) {
	csvURL := resolveURL(page.URL, task.Param(domain.ParamFilePath))
	if csvURL == "" {
		return domain.AnswerResult{}, false
	}

	content, err := e.downloader.Download(ctx, csvURL)
	if err != nil {
		e.warn("csv download failed", "url", csvURL, "error", err)
		return domain.AnswerResult{}, false
	}

	table, err := decode.ParseTable(content)
	if err != nil {
		e.warn("csv decode failed", "url", csvURL, "error", err)
		return domain.AnswerResult{}, false
	}

	rows := NormalizeTable(table)
	if rows == nil {
		return domain.AnswerResult{}, false
	}
	return domain.AnswerResult{Answer: domain.RowsAnswer(rows), Reasoning: "csv normalized"}, true
}

func (e *CSVNormalizeExtractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

// NormalizeTable maps column names onto the canonical set by substring
// match, coerces id/value to integers (non-numeric becomes 0), formats
// joined as YYYY-MM-DD and sorts by ascending id. Returns nil when no
// id column can be located.
func NormalizeTable(table decode.Table) []domain.Row {
	indexes := map[string]int{"id": -1, "name": -1, "joined": -1, "value": -1}

	for i, col := range table.Columns {
		name := snakeCase(col)
		switch {
		case indexes["id"] < 0 && strings.Contains(name, "id"):
			indexes["id"] = i
		case indexes["name"] < 0 && strings.Contains(name, "name"):
			indexes["name"] = i
		case indexes["joined"] < 0 && (strings.Contains(name, "joined") || strings.Contains(name, "date")):
			indexes["joined"] = i
		case indexes["value"] < 0 && strings.Contains(name, "value"):
			indexes["value"] = i
		}
	}
	if indexes["id"] < 0 {
		return nil
	}

	rows := make([]domain.Row, 0, len(table.Rows))
	for _, record := range table.Rows {
		row := domain.Row{
			ID:     coerceInt(cell(record, indexes["id"])),
			Name:   cell(record, indexes["name"]),
			Joined: normalizeDate(cell(record, indexes["joined"])),
			Value:  coerceInt(cell(record, indexes["value"])),
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows
}

func snakeCase(col string) string {
	name := strings.ToLower(strings.TrimSpace(col))
	name = nonWordExpr.ReplaceAllString(name, "")
	return whitespaceExpr.ReplaceAllString(name, "_")
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func coerceInt(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}

func normalizeDate(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
