package layout

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// gridConfig returns a 2x2 letter layout without covers for pagination tests.
func gridConfig() Config {
	cfg := DefaultConfig()
	cfg.Columns = 2
	cfg.Rows = 2
	cfg.PageSize = PageSizeLetter
	return cfg
}

func item(sku, cat, fam string) Item {
	return Item{SKU: sku, Name: "Product " + sku, Category: cat, Family: fam, ImagePath: "/img/" + sku + ".jpg"}
}

func skusOf(p Page) []string {
	var skus []string
	for _, c := range p.Cells {
		skus = append(skus, c.Item.SKU)
	}
	return skus
}

func TestPaginateFillsLeftToRightTopToBottom(t *testing.T) {
	items := []Item{
		item("1", "Food", "Dry"), item("2", "Food", "Dry"),
		item("3", "Food", "Dry"), item("4", "Food", "Dry"),
	}

	pages := Paginate(items, gridConfig(), nil)
	if len(pages) != 1 {
		t.Fatalf("pages = %d, want 1", len(pages))
	}

	wantPos := [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	for i, cell := range pages[0].Cells {
		if cell.Row != wantPos[i][0] || cell.Col != wantPos[i][1] {
			t.Errorf("cell %d at (%d,%d), want (%d,%d)", i, cell.Row, cell.Col, wantPos[i][0], wantPos[i][1])
		}
	}
}

func TestPaginateCategoryNeverSharesPage(t *testing.T) {
	// 3 items in Food leave one residual slot; Drinks must not take it.
	items := []Item{
		item("1", "Food", "Dry"), item("2", "Food", "Dry"), item("3", "Food", "Wet"),
		item("4", "Drinks", "Juice"), item("5", "Drinks", "Juice"),
	}

	pages := Paginate(items, gridConfig(), nil)
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}

	if got := skusOf(pages[0]); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Errorf("page 1 skus = %v, want [1 2 3]", got)
	}
	if got := skusOf(pages[1]); !reflect.DeepEqual(got, []string{"4", "5"}) {
		t.Errorf("page 2 skus = %v, want [4 5]", got)
	}
	for _, p := range pages {
		for _, c := range p.Cells {
			if c.Item.Category != p.Category {
				t.Errorf("page %d for %q contains %q item", p.Number, p.Category, c.Item.Category)
			}
		}
	}
}

func TestPaginateGridOverflowStartsNewPage(t *testing.T) {
	var items []Item
	for i := 0; i < 5; i++ {
		items = append(items, item(string(rune('a'+i)), "Food", "Dry"))
	}

	pages := Paginate(items, gridConfig(), nil)
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	if len(pages[0].Cells) != 4 || len(pages[1].Cells) != 1 {
		t.Errorf("cells = %d,%d, want 4,1", len(pages[0].Cells), len(pages[1].Cells))
	}
}

func TestPaginateFirstSeenOrderPreserved(t *testing.T) {
	// Categories and families interleaved in the input; first-seen order
	// governs, and input order survives inside each family.
	items := []Item{
		item("1", "Drinks", "Juice"),
		item("2", "Food", "Dry"),
		item("3", "Drinks", "Soda"),
		item("4", "Drinks", "Juice"),
	}

	pages := Paginate(items, gridConfig(), nil)
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(pages))
	}
	if pages[0].Category != "Drinks" || pages[1].Category != "Food" {
		t.Errorf("category order = %q, %q; want Drinks, Food", pages[0].Category, pages[1].Category)
	}
	if got := skusOf(pages[0]); !reflect.DeepEqual(got, []string{"1", "4", "3"}) {
		t.Errorf("Drinks skus = %v, want [1 4 3] (Juice family first)", got)
	}
}

func TestPaginateFamilyGroupMode(t *testing.T) {
	cfg := gridConfig()
	cfg.GroupMode = GroupByFamily

	items := []Item{
		item("1", "Food", "Dry"),
		item("2", "Food", "Wet"), item("3", "Food", "Wet"),
	}

	pages := Paginate(items, cfg, nil)
	if len(pages) != 2 {
		t.Fatalf("pages = %d, want 2 (one per family)", len(pages))
	}
	if pages[0].Family != "Dry" || pages[1].Family != "Wet" {
		t.Errorf("families = %q, %q; want Dry, Wet", pages[0].Family, pages[1].Family)
	}
}

func TestPaginateGroupingInvariant(t *testing.T) {
	// 2 categories x 2 families x 3 items against a 2x2 grid.
	var items []Item
	for _, cat := range []string{"A", "B"} {
		for _, fam := range []string{"f1", "f2"} {
			for i := 0; i < 3; i++ {
				items = append(items, item(cat+fam+string(rune('0'+i)), cat, fam))
			}
		}
	}

	pages := Paginate(items, gridConfig(), nil)
	for _, p := range pages {
		for _, c := range p.Cells {
			if c.Item.Category != p.Category {
				t.Fatalf("page %d mixes categories", p.Number)
			}
		}
		if len(p.Cells) > gridConfig().SlotsPerPage() {
			t.Fatalf("page %d overfilled: %d cells", p.Number, len(p.Cells))
		}
	}

	// 6 items per category over 4 slots: 2 pages each.
	if len(pages) != 4 {
		t.Errorf("pages = %d, want 4", len(pages))
	}
}

func TestPaginateReflow(t *testing.T) {
	items := []Item{
		item("1", "Food", "Dry"), item("2", "Food", "Dry"),
		item("3", "Food", "Dry"), item("4", "Food", "Dry"),
		item("5", "Food", "Dry"),
	}

	before := Paginate(items, gridConfig(), nil)
	if len(before) != 2 {
		t.Fatalf("pages before = %d, want 2", len(before))
	}

	// Remove one entry: the rest must shift to fill the freed slot.
	removed := append(append([]Item{}, items[:1]...), items[2:]...)
	after := Paginate(removed, gridConfig(), nil)
	if len(after) != 1 {
		t.Fatalf("pages after removal = %d, want 1", len(after))
	}
	if got := skusOf(after[0]); !reflect.DeepEqual(got, []string{"1", "3", "4", "5"}) {
		t.Errorf("reflowed skus = %v, want [1 3 4 5]", got)
	}
}

func TestPaginateDeterministic(t *testing.T) {
	items := []Item{
		item("1", "Food", "Dry"), item("2", "Drinks", "Juice"),
		item("3", "Food", "Wet"), item("4", "Drinks", "Soda"),
	}
	covers := &MapCovers{Generic: "/covers/generic.png"}

	first := Paginate(items, gridConfig(), covers)
	second := Paginate(items, gridConfig(), covers)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical input produced different page assignments")
	}
}

func TestPaginateCoverPages(t *testing.T) {
	items := []Item{item("1", "Food", "Dry"), item("2", "Drinks", "Juice")}

	t.Run("category cover and generic fallback", func(t *testing.T) {
		covers := &MapCovers{
			Covers:  map[string]string{"Food": "/covers/food.png"},
			Generic: "/covers/generic.png",
		}
		pages := Paginate(items, gridConfig(), covers)
		if len(pages) != 4 {
			t.Fatalf("pages = %d, want 4 (2 covers + 2 grids)", len(pages))
		}
		if pages[0].Kind != KindCover || pages[0].Cover != "/covers/food.png" {
			t.Errorf("page 1 = %+v, want Food cover", pages[0])
		}
		if pages[2].Kind != KindCover || pages[2].Cover != "/covers/generic.png" {
			t.Errorf("page 3 = %+v, want generic cover for Drinks", pages[2])
		}
	})

	t.Run("no resolver means no covers", func(t *testing.T) {
		pages := Paginate(items, gridConfig(), nil)
		for _, p := range pages {
			if p.Kind == KindCover {
				t.Fatal("cover page emitted without a resolver")
			}
		}
	})

	t.Run("page numbers are sequential", func(t *testing.T) {
		covers := &MapCovers{Generic: "/covers/generic.png"}
		pages := Paginate(items, gridConfig(), covers)
		for i, p := range pages {
			if p.Number != i+1 {
				t.Errorf("page index %d numbered %d", i, p.Number)
			}
		}
	})
}

func TestDirCovers(t *testing.T) {
	dir := t.TempDir()
	write := func(name string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		return path
	}

	foodPath := write("pet_food.png")
	genericPath := write("capa.png")

	covers := NewDirCovers(dir)

	t.Run("slugged category match", func(t *testing.T) {
		got, ok := covers.Resolve("Pet Food")
		if !ok || got != foodPath {
			t.Errorf("Resolve(Pet Food) = %q, %v; want %q", got, ok, foodPath)
		}
	})

	t.Run("generic fallback", func(t *testing.T) {
		got, ok := covers.Resolve("Unknown Category")
		if !ok || got != genericPath {
			t.Errorf("Resolve(unknown) = %q, %v; want %q", got, ok, genericPath)
		}
	})

	t.Run("missing directory misses quietly", func(t *testing.T) {
		if _, ok := NewDirCovers(filepath.Join(dir, "nope")).Resolve("Pet Food"); ok {
			t.Error("Resolve() = true for missing directory")
		}
	})

	t.Run("empty cover file is ignored", func(t *testing.T) {
		emptyDir := t.TempDir()
		if err := os.WriteFile(filepath.Join(emptyDir, "capa.png"), nil, 0o644); err != nil {
			t.Fatalf("setup: %v", err)
		}
		if _, ok := NewDirCovers(emptyDir).Resolve("Anything"); ok {
			t.Error("Resolve() = true for zero-byte cover")
		}
	})
}

func TestSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Pet Food", "pet_food"},
		{"  Drinks  ", "drinks"},
		{"Multi  Word   Name", "multi_word_name"},
		{"UPPER", "upper"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
