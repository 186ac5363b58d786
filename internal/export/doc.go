// Package export turns rendered quotation pages into one multi-page PDF.
//
// Each page is loaded into an off-screen browser tab sized to an A4 sheet,
// colors the rasterizer cannot handle are replaced, and the tab is captured
// as a PNG. Pages are captured one at a time, in order, because they share
// that tab. The PNGs are then placed full-bleed on successive PDF pages:
//
//	r, err := export.NewChromeRasterizer(export.WithNoSandbox())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
//	ex := export.NewExporter(r, logger)
//	res, err := ex.Export(ctx, pages, "Quotation")
//	err = res.WriteToFile(export.FileName("quote", "Acme", time.Now(), "pdf"), 0o644)
//
// Any page failure aborts the export; no partial document is produced.
package export
