// Package sheet loads the product and image-link tables the catalogue is
// built from. It accepts .xlsx workbooks (the commercial team's native
// format) and .csv exports, tolerates the column spellings that show up in
// real spreadsheets, and applies the business eligibility filters.
package sheet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentinel errors. Input problems are fatal at startup: no partial
// catalogue is produced from a broken table.
var (
	ErrMissingInput      = errors.New("input table not found")
	ErrUnsupportedFormat = errors.New("unsupported table format (want .xlsx or .csv)")
	ErrMissingColumn     = errors.New("required column missing")
	ErrEmptyTable        = errors.New("table has no data rows")
)

// Product is one raw spreadsheet row. Rows are immutable once loaded; the
// pre-filter slice is the candidate universe the reports account for.
type Product struct {
	SKU      string
	Name     string
	Category string
	Family   string

	// ImagePath (local) takes priority over ImageURL (remote) when both
	// are present; the per-SKU link table fills the remaining gaps.
	ImagePath string
	ImageURL  string

	// Raw filter cells. Empty means the column was absent, which passes
	// the corresponding filter.
	Stock       string
	Promotional string
	Active      string
}

// unclassified is the bucket for rows without category or family, matching
// what the commercial team expects to see in the rendered catalogue.
const unclassified = "Unclassified"

// titleCaser normalizes category and family spellings so "ALIMENTOS" and
// "alimentos" group together.
var titleCaser = cases.Title(language.Und)

// columnAliases maps logical fields to accepted header spellings
// (case-insensitive, Portuguese and English).
var columnAliases = map[string][]string{
	"sku":      {"sku", "codigo", "código", "cod"},
	"name":     {"name", "nome", "nome do produto", "product name", "descricao", "descrição"},
	"category": {"category", "categoria", "grupo", "group"},
	"family":   {"family", "familia", "família"},
	"imageurl": {"imageurl", "image url", "image", "imagem", "url"},
	"imagepath": {
		"imagepath", "image path", "caminho", "caminho da imagem", "local image",
	},
	"stock":  {"stock", "estoque"},
	"promo":  {"promotional", "promocional", "promo"},
	"active": {"active", "ativo"},
}

// RequiredHeaders lists the accepted spellings for the columns every product
// table must carry.
func RequiredHeaders() []string {
	var headers []string
	for _, field := range []string{"sku", "name"} {
		headers = append(headers, columnAliases[field]...)
	}
	return headers
}

// LoadProducts reads the product table. The returned slice preserves row
// order and includes ineligible rows; callers filter with Eligible.
func LoadProducts(path string) ([]Product, error) {
	rows, err := loadRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}

	cols := mapColumns(rows[0])
	for _, required := range []string{"sku", "name"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s in %s", ErrMissingColumn, required, path)
		}
	}

	products := make([]Product, 0, len(rows)-1)
	for _, row := range rows[1:] {
		sku := NormalizeSKU(cell(row, cols, "sku"))
		if sku == "" {
			continue
		}
		products = append(products, Product{
			SKU:         sku,
			Name:        strings.TrimSpace(cell(row, cols, "name")),
			Category:    classify(cell(row, cols, "category")),
			Family:      classify(cell(row, cols, "family")),
			ImagePath:   strings.TrimSpace(cell(row, cols, "imagepath")),
			ImageURL:    strings.TrimSpace(cell(row, cols, "imageurl")),
			Stock:       strings.TrimSpace(cell(row, cols, "stock")),
			Promotional: strings.TrimSpace(cell(row, cols, "promo")),
			Active:      strings.TrimSpace(cell(row, cols, "active")),
		})
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}
	return products, nil
}

// LoadImageLinks reads the per-SKU image URL table. The file is optional
// input at the pipeline level; a missing path is still an error here so the
// caller decides.
func LoadImageLinks(path string) (map[string]string, error) {
	rows, err := loadRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}

	cols := mapColumns(rows[0])
	if _, ok := cols["sku"]; !ok {
		return nil, fmt.Errorf("%w: sku in %s", ErrMissingColumn, path)
	}
	if _, ok := cols["imageurl"]; !ok {
		return nil, fmt.Errorf("%w: imageurl in %s", ErrMissingColumn, path)
	}

	links := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		sku := NormalizeSKU(cell(row, cols, "sku"))
		url := strings.TrimSpace(cell(row, cols, "imageurl"))
		if sku == "" || url == "" {
			continue
		}
		// First occurrence wins so reloads stay deterministic.
		if _, ok := links[sku]; !ok {
			links[sku] = url
		}
	}
	return links, nil
}

// ImageRef resolves the product's image source: local path first, then the
// row's own URL, then the link table.
func (p Product) ImageRef(links map[string]string) string {
	if p.ImagePath != "" {
		return p.ImagePath
	}
	if p.ImageURL != "" {
		return p.ImageURL
	}
	return links[p.SKU]
}

// Eligible applies the business filters: positive stock, non-promotional,
// active. An empty cell means the column was absent and passes.
func (p Product) Eligible() bool {
	if p.Stock != "" {
		qty, err := strconv.ParseFloat(strings.ReplaceAll(p.Stock, ",", "."), 64)
		if err != nil || qty <= 0 {
			return false
		}
	}
	if p.Promotional != "" && isAffirmative(p.Promotional) {
		return false
	}
	if p.Active != "" && !isAffirmative(p.Active) {
		return false
	}
	return true
}

// FilterEligible returns the rows passing the business filters, in order.
func FilterEligible(products []Product) []Product {
	eligible := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Eligible() {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// NormalizeSKU trims whitespace and the trailing ".0" numeric spreadsheet
// cells grow when exported.
func NormalizeSKU(raw string) string {
	sku := strings.TrimSpace(raw)
	if strings.HasSuffix(sku, ".0") {
		stem := strings.TrimSuffix(sku, ".0")
		if _, err := strconv.Atoi(stem); err == nil {
			return stem
		}
	}
	return sku
}

// isAffirmative interprets yes-ish spreadsheet cells in both languages.
func isAffirmative(cellValue string) bool {
	switch strings.ToUpper(strings.TrimSpace(cellValue)) {
	case "SIM", "S", "YES", "Y", "TRUE", "1":
		return true
	}
	return false
}

func classify(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return unclassified
	}
	return titleCaser.String(strings.ToLower(trimmed))
}

// cell returns the named column's value for the row, or "" when the column
// is absent or the row is short.
func cell(row []string, cols map[string]int, field string) string {
	idx, ok := cols[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// mapColumns matches header spellings to logical fields. First match wins.
func mapColumns(header []string) map[string]int {
	cols := make(map[string]int)
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		for field, aliases := range columnAliases {
			if _, taken := cols[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if name == alias {
					cols[field] = i
					break
				}
			}
		}
	}
	return cols
}

// loadRows dispatches on the file extension.
func loadRows(path string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return loadXLSX(path)
	case ".csv":
		return loadCSV(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// loadXLSX reads the first sheet of a workbook.
func loadXLSX(path string) ([][]string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyTable, path)
	}

	rows, err := wb.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
