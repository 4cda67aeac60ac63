// Package catalogue turns a product spreadsheet and per-SKU image sources
// into a print-ready PDF catalogue plus audit reports.
//
// The pipeline selects candidate products, fetches and normalizes their
// images through a persistent on-disk cache, lays them out on a
// deterministic category-grouped grid, renders the result to HTML, and
// prints it to PDF with headless Chrome.
//
// Basic usage:
//
//	svc := catalogue.New(catalogue.WithTimeout(60 * time.Second))
//	defer svc.Close()
//
//	res, err := svc.Generate(ctx, catalogue.Input{
//		Products: products,
//		Layout:   layout.DefaultConfig(),
//	})
package catalogue
