package layout

// Item is one catalogue entry with a resolved local image.
// Entries whose image resolution failed never reach the layout engine.
type Item struct {
	SKU       string
	Name      string
	Category  string
	Family    string
	ImagePath string
}

// PageKind distinguishes section dividers from product grids.
type PageKind int

const (
	KindCover PageKind = iota
	KindGrid
)

// Cell is one filled grid slot. Row and Col are zero-based.
type Cell struct {
	Item Item
	Row  int
	Col  int
}

// Page is one rendered catalogue page. Cover pages carry CoverPath and no
// cells; grid pages carry the category (and, in family group mode, the
// family) they belong to.
type Page struct {
	Number   int
	Kind     PageKind
	Category string
	Family   string
	Cover    string
	Cells    []Cell
}

// group preserves first-seen order of categories and families, keeping the
// input order of items inside each family.
type group struct {
	categories []string
	families   map[string][]string
	items      map[string]map[string][]Item
}

func groupItems(items []Item) *group {
	g := &group{
		families: make(map[string][]string),
		items:    make(map[string]map[string][]Item),
	}
	for _, it := range items {
		byFam, ok := g.items[it.Category]
		if !ok {
			g.categories = append(g.categories, it.Category)
			byFam = make(map[string][]Item)
			g.items[it.Category] = byFam
		}
		if _, ok := byFam[it.Family]; !ok {
			g.families[it.Category] = append(g.families[it.Category], it.Family)
		}
		byFam[it.Family] = append(byFam[it.Family], it)
	}
	return g
}

// Paginate lays items out into pages under cfg. Grid cells fill
// left-to-right, top-to-bottom; a new page starts when the grid is full,
// when the category changes, or — in family group mode — when the family
// changes. Residual slots on a category's last page stay blank: the next
// category never shares the page.
//
// covers may be nil, in which case no cover pages are emitted.
func Paginate(items []Item, cfg Config, covers CoverResolver) []Page {
	g := groupItems(items)
	slots := cfg.SlotsPerPage()

	var pages []Page
	number := 0

	appendPage := func(p Page) {
		number++
		p.Number = number
		pages = append(pages, p)
	}

	for _, cat := range g.categories {
		if covers != nil {
			if path, ok := covers.Resolve(cat); ok {
				appendPage(Page{Kind: KindCover, Category: cat, Cover: path})
			}
		}

		var cells []Cell
		family := ""

		flush := func() {
			if len(cells) == 0 {
				return
			}
			p := Page{Kind: KindGrid, Category: cat, Cells: cells}
			if cfg.GroupMode == GroupByFamily {
				p.Family = family
			}
			appendPage(p)
			cells = nil
		}

		for _, fam := range g.families[cat] {
			if cfg.GroupMode == GroupByFamily {
				flush()
				family = fam
			}
			for _, it := range g.items[cat][fam] {
				if len(cells) == slots {
					flush()
				}
				slot := len(cells)
				cells = append(cells, Cell{Item: it, Row: slot / cfg.Columns, Col: slot % cfg.Columns})
			}
		}
		flush()
	}

	return pages
}
