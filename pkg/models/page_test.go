package models

import "testing"

func TestResolvePage(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		totalItems int
		wantPage   int
		wantPages  int
	}{
		{"first page", "1", 20, 1, 3},
		{"middle page", "2", 20, 2, 3},
		{"last partial page", "3", 20, 3, 3},
		{"non-numeric falls back to first", "abc", 20, 1, 3},
		{"missing falls back to first", "", 20, 1, 3},
		{"out of range clamps to last", "999", 20, 3, 3},
		{"below one clamps to last", "0", 20, 3, 3},
		{"negative clamps to last", "-4", 20, 3, 3},
		{"empty listing has one page", "1", 0, 1, 1},
		{"empty listing non-numeric", "abc", 0, 1, 1},
		{"exact multiple of page size", "2", 18, 2, 2},
		{"whitespace tolerated", " 2 ", 20, 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pages := ResolvePage(tt.raw, tt.totalItems, ProductPageSize)
			if page != tt.wantPage {
				t.Errorf("page = %d, want %d", page, tt.wantPage)
			}
			if pages != tt.wantPages {
				t.Errorf("totalPages = %d, want %d", pages, tt.wantPages)
			}
		})
	}
}

func TestProductPageNavigation(t *testing.T) {
	p := &ProductPage{Page: 2, TotalPages: 3}
	if !p.HasNext() {
		t.Error("expected HasNext on middle page")
	}
	if !p.HasPrev() {
		t.Error("expected HasPrev on middle page")
	}

	first := &ProductPage{Page: 1, TotalPages: 1}
	if first.HasNext() || first.HasPrev() {
		t.Error("single page should have no neighbours")
	}
}
