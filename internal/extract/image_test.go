package extract

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"QuizSolver/internal/domain"
)

type fakeDownloader struct {
	content []byte
	err     error
}

func (d fakeDownloader) Download(_ context.Context, _ string) ([]byte, error) {
	return d.content, d.err
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestImageColorDominant(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{R: 255, A: 255})
	img.Set(0, 1, color.RGBA{R: 255, A: 255})
	img.Set(1, 1, color.RGBA{B: 255, A: 255})

	e := NewImageColorExtractor(fakeDownloader{content: encodePNG(t, img)}, nil)
	task := domain.TaskDescriptor{
		Category: domain.CategoryImageColor,
		Params:   map[string]string{domain.ParamFilePath: "/project2/heat.png"},
	}
	page := domain.QuizPage{URL: "https://x.test/project2/q7"}

	result, ok := e.Extract(context.Background(), task, page)
	if !ok {
		t.Fatal("expected extraction to succeed")
	}
	if result.Answer.Text != "#ff0000" {
		t.Fatalf("unexpected dominant color: %s", result.Answer.Text)
	}
}

func TestImageColorDownloadFailure(t *testing.T) {
	t.Parallel()

	e := NewImageColorExtractor(fakeDownloader{err: errors.New("boom")}, nil)
	task := domain.TaskDescriptor{
		Category: domain.CategoryImageColor,
		Params:   map[string]string{domain.ParamFilePath: "/heat.png"},
	}
	page := domain.QuizPage{URL: "https://x.test/q"}

	if _, ok := e.Extract(context.Background(), task, page); ok {
		t.Fatal("expected extraction to fall through on download failure")
	}
}

func TestImageColorInvalidBytes(t *testing.T) {
	t.Parallel()

	e := NewImageColorExtractor(fakeDownloader{content: []byte("not an image")}, nil)
	task := domain.TaskDescriptor{
		Category: domain.CategoryImageColor,
		Params:   map[string]string{domain.ParamFilePath: "/heat.png"},
	}
	page := domain.QuizPage{URL: "https://x.test/q"}

	if _, ok := e.Extract(context.Background(), task, page); ok {
		t.Fatal("expected extraction to fall through on decode failure")
	}
}
