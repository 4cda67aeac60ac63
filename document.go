package catalogue

import (
	"fmt"
	"html/template"
	"path/filepath"
	"strings"

	"github.com/yScroww/Catalogue-Automation/internal/assets"
	"github.com/yScroww/Catalogue-Automation/internal/layout"
)

// defaultTitle is used when the input carries no document title.
const defaultTitle = "Catalogue"

// documentData feeds the document shell template.
type documentData struct {
	Title      string
	Stylesheet template.CSS
	Body       template.HTML
}

// coverData feeds the cover page template. Image is template.URL because
// html/template would otherwise reject the file:// scheme.
type coverData struct {
	Category string
	Image    template.URL
}

// gridCellData feeds one tile in the grid page template. GridRow and
// GridColumn are 1-based CSS grid lines.
type gridCellData struct {
	SKU        string
	Name       string
	Image      template.URL
	GridRow    int
	GridColumn int
}

// gridPageData feeds the grid page template.
type gridPageData struct {
	Number   int
	Category string
	Family   string
	Cells    []gridCellData
}

// documentRenderer assembles the catalogue HTML from the layout pages and
// the loaded presentation assets.
type documentRenderer struct {
	document *template.Template
	cover    *template.Template
	grid     *template.Template
	css      string
}

// newDocumentRenderer loads and parses the three required templates and the
// stylesheet through the given loader.
func newDocumentRenderer(loader assets.Loader, style string) (*documentRenderer, error) {
	if style == "" {
		style = assets.DefaultStyle
	}
	css, err := loader.Style(style)
	if err != nil {
		return nil, err
	}

	parse := func(name string) (*template.Template, error) {
		text, err := loader.Template(name)
		if err != nil {
			return nil, err
		}
		tmpl, err := template.New(name).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplateRender, name, err)
		}
		return tmpl, nil
	}

	r := &documentRenderer{css: css}
	if r.document, err = parse(assets.TemplateDocument); err != nil {
		return nil, err
	}
	if r.cover, err = parse(assets.TemplateCover); err != nil {
		return nil, err
	}
	if r.grid, err = parse(assets.TemplateGrid); err != nil {
		return nil, err
	}
	return r, nil
}

// Render produces the complete HTML document for the paginated catalogue.
// intro, when non-empty, is a pre-rendered HTML fragment placed before the
// first page.
func (r *documentRenderer) Render(title string, cfg layout.Config, pages []layout.Page, intro template.HTML) (string, error) {
	if title == "" {
		title = defaultTitle
	}

	var body strings.Builder
	body.WriteString(string(intro))

	for _, page := range pages {
		var err error
		switch page.Kind {
		case layout.KindCover:
			err = r.cover.Execute(&body, coverData{
				Category: page.Category,
				Image:    fileURL(page.Cover),
			})
		case layout.KindGrid:
			err = r.grid.Execute(&body, toGridPageData(page))
		}
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrTemplateRender, page.Number, err)
		}
	}

	var doc strings.Builder
	err := r.document.Execute(&doc, documentData{
		Title:      title,
		Stylesheet: template.CSS(r.css + "\n" + buildLayoutCSS(cfg)),
		Body:       template.HTML(body.String()),
	})
	if err != nil {
		return "", fmt.Errorf("%w: document shell: %v", ErrTemplateRender, err)
	}
	return doc.String(), nil
}

func toGridPageData(page layout.Page) gridPageData {
	data := gridPageData{
		Number:   page.Number,
		Category: page.Category,
		Family:   page.Family,
		Cells:    make([]gridCellData, 0, len(page.Cells)),
	}
	for _, cell := range page.Cells {
		data.Cells = append(data.Cells, gridCellData{
			SKU:        cell.Item.SKU,
			Name:       cell.Item.Name,
			Image:      fileURL(cell.Item.ImagePath),
			GridRow:    cell.Row + 1,
			GridColumn: cell.Col + 1,
		})
	}
	return data
}

// fileURL turns a local path into a file:// URL so images resolve when the
// document itself is loaded from a temp file. The cache owns these paths,
// which is why handing them to the template as a trusted URL is safe.
func fileURL(path string) template.URL {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	abs = filepath.ToSlash(abs)
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	return template.URL("file://" + abs)
}
