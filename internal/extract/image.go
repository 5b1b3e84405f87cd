package extract

import (
	"context"
	"fmt"
	"log/slog"

	"QuizSolver/internal/decode"
	"QuizSolver/internal/domain"
	"QuizSolver/internal/ports"
)

// ImageColorExtractor downloads an image and answers with its most
// frequent pixel value as a lowercase hex color code.
type ImageColorExtractor struct {
	downloader ports.Downloader
	logger     *slog.Logger
}

func NewImageColorExtractor(downloader ports.Downloader, logger *slog.Logger) *ImageColorExtractor {
	return &ImageColorExtractor{downloader: downloader, logger: logger}
}

func (e *ImageColorExtractor) Category() domain.Category { return domain.CategoryImageColor }

func (e *ImageColorExtractor) Extract(ctx context.Context, task domain.TaskDescriptor, page domain.QuizPage) (domain.AnswerResult, bool) {
	imageURL := resolveURL(page.URL, task.Param(domain.ParamFilePath))
	if imageURL == "" {
		return domain.AnswerResult{}, false
	}

	content, err := e.downloader.Download(ctx, imageURL)
	if err != nil {
		e.warn("image download failed", "url", imageURL, "error", err)
		return domain.AnswerResult{}, false
	}

	img, err := decode.ParseImage(content)
	if err != nil {
		e.warn("image decode failed", "url", imageURL, "error", err)
		return domain.AnswerResult{}, false
	}

	// Exact-value frequency count over the 3-channel color space. Ties
	// are broken by map iteration order, which is stable only for a
	// strict maximum.
	counts := map[[3]uint8]int{}
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			counts[[3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}]++
		}
	}
	if len(counts) == 0 {
		return domain.AnswerResult{}, false
	}

	var dominant [3]uint8
	best := -1
	for value, n := range counts {
		if n > best {
			dominant, best = value, n
		}
	}

	hex := fmt.Sprintf("#%02x%02x%02x", dominant[0], dominant[1], dominant[2])
	return domain.AnswerResult{Answer: domain.TextAnswer(hex), Reasoning: "dominant color extracted from image"}, true
}

func (e *ImageColorExtractor) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
