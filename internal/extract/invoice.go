package extract

import (
	"context"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"QuizSolver/internal/decode"
	"QuizSolver/internal/domain"
	"QuizSolver/internal/ports"
)

var numberTokenExpr = regexp.MustCompile(`\d+\.?\d*`)

var (
	itemHeaderWords = []string{"quantity", "item", "description"}
	itemFooterWords = []string{"subtotal", "total", "tax", "amount due"}
	metadataWords   = []string{"invoice", "bill", "date", "number"}
)

// PDFInvoiceExtractor downloads a PDF invoice and answers with the sum
// of quantity times unit price over its line items.
type PDFInvoiceExtractor struct {
	downloader ports.Downloader
	logger     *slog.Logger
}

func NewPDFInvoiceExtractor(downloader ports.Downloader, logger *slog.Logger) *PDFInvoiceExtractor {
	return &PDFInvoiceExtractor{downloader: downloader, logger: logger}
}

func (e *PDFInvoiceExtractor) Category() domain.Category { return domain.CategoryPDFInvoice }

func (e *PDFInvoiceExtractor) Extract(ctx context.Context, task domain.TaskDescriptor, page domain.QuizPage) (domain.AnswerResult, bool) {
	pdfURL := resolveURL(page.URL, task.Param(domain.ParamFilePath))
	if pdfURL == "" {
		return domain.AnswerResult{}, false
	}

	content, err := e.downloader.Download(ctx, pdfURL)
	if err != nil {
		e.warn("pdf download failed", "url", pdfURL, "error", err)
		return domain.AnswerResult{}, false
	}

	doc, err := decode.ParseDocument(content)
	if err != nil {
		e.warn("pdf decode failed", "url", pdfURL, "error", err)
		return domain.AnswerResult{}, false
	}

	total := InvoiceTotal(doc.Text)
	if total <= 0 {
		return domain.AnswerResult{}, false
	}
	return domain.AnswerResult{Answer: domain.NumberAnswer(total), Reasoning: "invoice total calculated from pdf"}, true
}

func (e *PDFInvoiceExtractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}

// InvoiceTotal scans invoice text line by line: the item region starts
// at a header keyword and ends at a total/tax keyword; within it, the
// first two numeric tokens of a line are quantity and unit price,
// sanity-bounded to 0 < qty <= 1000 and 0 < price <= 10000. The sum is
// rounded to 2 decimal places.
func InvoiceTotal(text string) float64 {
	var total float64
	inItems := false

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)

		if containsAny(lower, itemHeaderWords) {
			inItems = true
			continue
		}
		if containsAny(lower, itemFooterWords) {
			break
		}
		if !inItems && containsAny(lower, metadataWords) {
			continue
		}

		numbers := numberTokenExpr.FindAllString(line, -1)
		if len(numbers) < 2 {
			continue
		}
		quantity, qErr := strconv.ParseFloat(numbers[0], 64)
		unitPrice, pErr := strconv.ParseFloat(numbers[1], 64)
		if qErr != nil || pErr != nil {
			continue
		}
		if quantity > 0 && quantity <= 1000 && unitPrice > 0 && unitPrice <= 10000 {
			total += quantity * unitPrice
		}
	}

	return math.Round(total*100) / 100
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
