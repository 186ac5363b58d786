package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// Compose places each PNG raster full-bleed on its own page of size.
func Compose(rasters [][]byte, size PageSize, title string, createdAt time.Time) (*Result, error) {
	if len(rasters) == 0 {
		return nil, ErrNoPages
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: size.Width, Ht: size.Height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("quotedoc", true)
	if title != "" {
		pdf.SetTitle(title, true)
	}
	if !createdAt.IsZero() {
		pdf.SetCreationDate(createdAt)
		pdf.SetModificationDate(createdAt)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	for i, raster := range rasters {
		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(raster))
		pdf.AddPage()
		pdf.ImageOptions(name, 0, 0, size.Width, size.Height, false, opts, 0, "")
		if pdf.Err() {
			return nil, fmt.Errorf("export: placing page %d: %w", i+1, pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: writing pdf: %w", err)
	}
	return &Result{data: buf.Bytes(), pages: len(rasters)}, nil
}
