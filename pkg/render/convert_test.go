package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/recipeflow/pkg/errors"
)

const tinySVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10" width="10" height="10"><rect width="10" height="10" fill="#007AFF"/></svg>`

func TestConvert(t *testing.T) {
	ctx := context.Background()

	if !Available() {
		_, err := ToPDF(ctx, []byte(tinySVG))
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Fatalf("ToPDF() without rsvg-convert: error = %v, want UNSUPPORTED", err)
		}
		t.Skip("rsvg-convert not installed")
	}

	pdf, err := ToPDF(ctx, []byte(tinySVG))
	if err != nil {
		t.Fatalf("ToPDF() error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("ToPDF() output does not look like a PDF")
	}

	png, err := ToPNG(ctx, []byte(tinySVG), 2)
	if err != nil {
		t.Fatalf("ToPNG() error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("ToPNG() output does not look like a PNG")
	}
}

func TestConvertCanceled(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ToPDF(ctx, []byte(tinySVG)); err == nil {
		t.Error("ToPDF() with a canceled context should fail")
	}
}
