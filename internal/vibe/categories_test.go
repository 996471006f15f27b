package vibe

import "testing"

func TestMapCategory(t *testing.T) {
	tests := []struct {
		label        string
		wantCategory string
		wantOK       bool
	}{
		{label: "techno", wantCategory: CategoryTechno, wantOK: true},
		{label: "Deep House", wantCategory: CategoryHouse, wantOK: true},
		{label: "hip hop", wantCategory: CategoryHipHop, wantOK: true},
		{label: "lo-fi hip hop", wantCategory: CategoryHipHop, wantOK: true},
		{label: "jungle", wantCategory: CategoryDrumAndBass, wantOK: true},
		{label: "drum & bass", wantCategory: CategoryDrumAndBass, wantOK: true},
		{label: "field recording", wantCategory: CategoryExperimental, wantOK: true},
		{label: "gabber polka", wantOK: false},
		{label: "", wantOK: false},
	}
	for _, tc := range tests {
		t.Run(tc.label, func(t *testing.T) {
			got, ok := MapCategory(tc.label)
			if ok != tc.wantOK {
				t.Fatalf("MapCategory(%q) ok = %v, want %v", tc.label, ok, tc.wantOK)
			}
			if ok && got != tc.wantCategory {
				t.Fatalf("MapCategory(%q) = %q, want %q", tc.label, got, tc.wantCategory)
			}
		})
	}
}

func TestCategoriesAdjacent(t *testing.T) {
	if !CategoriesAdjacent(CategoryHouse, CategoryTechno) {
		t.Fatal("house and techno should be adjacent")
	}
	if !CategoriesAdjacent(CategoryTechno, CategoryHouse) {
		t.Fatal("adjacency must be symmetric")
	}
	if CategoriesAdjacent(CategoryHouse, CategoryHouse) {
		t.Fatal("a category is not adjacent to itself")
	}
	if CategoriesAdjacent(CategoryAmbient, CategoryDrumAndBass) {
		t.Fatal("ambient and drum-and-bass should not be adjacent")
	}
}
