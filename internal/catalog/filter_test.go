package catalog

import (
	"encoding/json"
	"fmt"
	"testing"

	"storefront/client/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func ids(products []domain.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleSnapshot() Snapshot {
	return Snapshot{
		Products: []domain.Product{
			{ID: 1, Name: "Áo", Price: domain.PriceFromInt(100), Category: domain.TextRef("shirts")},
			{ID: 2, Name: "Quần", Price: domain.PriceFromInt(50), Category: domain.TextRef("pants")},
		},
	}
}

func TestDeriveCategory(t *testing.T) {
	res := Derive(sampleSnapshot(), Criteria{Category: "shirts"})
	assert.Equal(t, []int64{1}, ids(res.Products))
	assert.Equal(t, 1, res.Total)
}

func TestDeriveEmptyCategoryReturnsAll(t *testing.T) {
	res := Derive(sampleSnapshot(), Criteria{Category: ""})
	assert.Equal(t, []int64{1, 2}, ids(res.Products))
}

func TestDerivePriceLow(t *testing.T) {
	res := Derive(sampleSnapshot(), Criteria{Sort: SortPriceLow})
	assert.Equal(t, []int64{2, 1}, ids(res.Products))
}

func TestDerivePriceRange(t *testing.T) {
	tests := []struct {
		name  string
		price PriceRange
		want  []int64
	}{
		{name: "min excludes cheaper", price: PriceRange{Min: amount("60")}, want: []int64{1}},
		{name: "max excludes dearer", price: PriceRange{Max: amount("60")}, want: []int64{2}},
		{name: "bounds are inclusive", price: PriceRange{Min: amount("50"), Max: amount("100")}, want: []int64{1, 2}},
		{name: "empty window", price: PriceRange{Min: amount("60"), Max: amount("90")}, want: []int64{}},
		{name: "zero min is applied", price: PriceRange{Min: amount("0")}, want: []int64{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Derive(sampleSnapshot(), Criteria{Price: tt.price})
			assert.Equal(t, tt.want, ids(res.Products))
		})
	}
}

func TestDeriveQuery(t *testing.T) {
	snapshot := Snapshot{
		Products: []domain.Product{
			{ID: 1, Name: "Áo sơ mi trắng", Description: "Cotton"},
			{ID: 2, Name: "Quần jean", Description: "Vải denim co giãn"},
			{ID: 3, Name: "Mũ lưỡi trai"},
		},
	}

	tests := []struct {
		query string
		want  []int64
	}{
		{query: "", want: []int64{1, 2, 3}},
		{query: "  ", want: []int64{1, 2, 3}},
		{query: "ÁO", want: []int64{1}},
		{query: "denim", want: []int64{2}},
		{query: "cotton", want: []int64{1}},
		{query: "giày", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("query %q", tt.query), func(t *testing.T) {
			res := Derive(snapshot, Criteria{Query: tt.query})
			assert.Equal(t, tt.want, ids(res.Products))
		})
	}
}

func TestDeriveCombinesFiltersWithAnd(t *testing.T) {
	snapshot := Snapshot{
		Products: []domain.Product{
			{ID: 1, Name: "Áo thun", Price: domain.PriceFromInt(80), Category: domain.TextRef("shirts")},
			{ID: 2, Name: "Áo khoác", Price: domain.PriceFromInt(300), Category: domain.TextRef("jackets")},
			{ID: 3, Name: "Áo polo", Price: domain.PriceFromInt(150), Category: domain.TextRef("shirts")},
			{ID: 4, Name: "Quần", Price: domain.PriceFromInt(120), Category: domain.TextRef("shirts")},
		},
	}

	res := Derive(snapshot, Criteria{
		Category: "shirts",
		Query:    "áo",
		Price:    PriceRange{Min: amount("100")},
	})
	assert.Equal(t, []int64{3}, ids(res.Products))
}

func TestMatchesCategory(t *testing.T) {
	object := domain.ObjectRef(domain.Category{ID: 7, Name: "Áo Nam", Slug: "ao-nam"})

	tests := []struct {
		name       string
		ref        domain.CategoryRef
		identifier string
		want       bool
	}{
		{name: "empty identifier matches anything", ref: domain.CategoryRef{}, identifier: "", want: true},
		{name: "missing category never matches", ref: domain.CategoryRef{}, identifier: "shirts", want: false},
		{name: "text exact", ref: domain.TextRef("Shirts"), identifier: "shirts", want: true},
		{name: "text contains identifier", ref: domain.TextRef("summer-shirts"), identifier: "shirts", want: true},
		{name: "identifier contains text", ref: domain.TextRef("shirt"), identifier: "shirts", want: true},
		{name: "text unrelated", ref: domain.TextRef("pants"), identifier: "shirts", want: false},
		{name: "number exact", ref: domain.NumberRef(7), identifier: "7", want: true},
		{name: "number unrelated", ref: domain.NumberRef(8), identifier: "7", want: false},
		{name: "object by id", ref: object, identifier: "7", want: true},
		{name: "object by name", ref: object, identifier: "áo nam", want: true},
		{name: "object by slug", ref: object, identifier: "ao-nam", want: true},
		{name: "object slug contains identifier", ref: object, identifier: "ao", want: true},
		{name: "object unrelated", ref: object, identifier: "pants", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchesCategory(tt.ref, tt.identifier))
		})
	}
}

func TestDeriveResolvesCategoryFromSnapshot(t *testing.T) {
	snapshot := Snapshot{
		Categories: []domain.Category{
			{ID: 3, Name: "Áo sơ mi", Slug: "ao-so-mi"},
			{ID: 4, Name: "Quần", Slug: "quan"},
		},
		Products: []domain.Product{
			{ID: 1, Name: "a", Category: domain.ObjectRef(domain.Category{ID: 3, Name: "Áo sơ mi", Slug: "ao-so-mi"})},
			{ID: 2, Name: "b", Category: domain.ObjectRef(domain.Category{ID: 4, Name: "Quần", Slug: "quan"})},
			{ID: 3, Name: "c", Category: domain.TextRef("ao-so-mi")},
		},
	}

	for _, param := range []string{"ao-so-mi", "ÁO SƠ MI", "3"} {
		t.Run(param, func(t *testing.T) {
			res := Derive(snapshot, Criteria{Category: param})
			require.NotNil(t, res.Category)
			assert.Equal(t, int64(3), res.Category.ID)
			assert.Equal(t, []int64{1, 3}, ids(res.Products))
		})
	}

	res := Derive(snapshot, Criteria{Category: "quan"})
	require.NotNil(t, res.Category)
	assert.Equal(t, []int64{2}, ids(res.Products))

	res = Derive(snapshot, Criteria{Category: "giày"})
	assert.Nil(t, res.Category)
	assert.Empty(t, res.Products)
}

func TestDeriveCategoryFromAPIPayload(t *testing.T) {
	var products []domain.Product
	payload := `[
		{"id": 1, "name": "a", "price": "10.00", "category": {"id": 5, "name": "Giày", "slug": "giay"}},
		{"id": 2, "name": "b", "price": 20, "category": 5},
		{"id": 3, "name": "c", "price": null, "category": "giay"},
		{"id": 4, "name": "d", "category": null},
		{"id": 5, "name": "e", "price": "n/a", "category": {"pk": 6, "title": "Túi"}}
	]`
	require.NoError(t, json.Unmarshal([]byte(payload), &products))

	res := Derive(Snapshot{Products: products}, Criteria{Category: "giay"})
	assert.Equal(t, []int64{1, 3}, ids(res.Products))

	res = Derive(Snapshot{Products: products}, Criteria{Category: "5"})
	assert.Equal(t, []int64{1, 2}, ids(res.Products))

	res = Derive(Snapshot{Products: products}, Criteria{Category: "túi"})
	assert.Equal(t, []int64{5}, ids(res.Products))

	res = Derive(Snapshot{Products: products}, Criteria{Sort: SortPriceHigh})
	assert.Equal(t, []int64{2, 1, 3, 4, 5}, ids(res.Products))
}

func TestDeriveSort(t *testing.T) {
	snapshot := Snapshot{
		Products: []domain.Product{
			{ID: 3, Name: "Zebra", Price: domain.PriceFromInt(20)},
			{ID: 10, Name: "Áo", Price: domain.PriceFromInt(5)},
			{ID: 0, Name: "bút", Price: domain.PriceFromInt(20)},
			{ID: 7, Name: "Cà phê", Price: domain.PriceFromInt(1)},
		},
	}

	tests := []struct {
		mode SortMode
		want []int64
	}{
		{mode: SortRelevance, want: []int64{3, 10, 0, 7}},
		{mode: "", want: []int64{3, 10, 0, 7}},
		{mode: SortPriceLow, want: []int64{7, 10, 3, 0}},
		{mode: SortPriceHigh, want: []int64{3, 0, 10, 7}},
		{mode: SortName, want: []int64{10, 0, 7, 3}},
		{mode: SortNewest, want: []int64{10, 7, 3, 0}},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			res := NewFilter(language.Vietnamese).Derive(snapshot, Criteria{Sort: tt.mode})
			assert.Equal(t, tt.want, ids(res.Products))
		})
	}
}

func TestDeriveDoesNotReorderSnapshot(t *testing.T) {
	snapshot := sampleSnapshot()
	Derive(snapshot, Criteria{Sort: SortPriceLow})
	assert.Equal(t, []int64{1, 2}, ids(snapshot.Products))
}

func manyProducts(n int) Snapshot {
	products := make([]domain.Product, n)
	for i := range products {
		products[i] = domain.Product{ID: int64(i + 1), Name: fmt.Sprintf("p%d", i+1)}
	}
	return Snapshot{Products: products}
}

func TestDerivePagination(t *testing.T) {
	snapshot := manyProducts(25)

	tests := []struct {
		page      int
		wantPage  int
		wantFirst int64
		wantLen   int
	}{
		{page: 0, wantPage: 1, wantFirst: 1, wantLen: 12},
		{page: 1, wantPage: 1, wantFirst: 1, wantLen: 12},
		{page: 2, wantPage: 2, wantFirst: 13, wantLen: 12},
		{page: 3, wantPage: 3, wantFirst: 25, wantLen: 1},
		{page: 5, wantPage: 3, wantFirst: 25, wantLen: 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page %d", tt.page), func(t *testing.T) {
			res := Derive(snapshot, Criteria{Page: tt.page})
			assert.Equal(t, 3, res.TotalPages)
			assert.Equal(t, 25, res.Total)
			assert.Equal(t, tt.wantPage, res.Page)
			require.Len(t, res.Products, tt.wantLen)
			assert.Equal(t, tt.wantFirst, res.Products[0].ID)
		})
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0))
	assert.Equal(t, 1, TotalPages(12))
	assert.Equal(t, 2, TotalPages(13))
	assert.Equal(t, 3, TotalPages(25))
}

func TestDeriveEmptyResult(t *testing.T) {
	res := Derive(Snapshot{}, Criteria{Page: 4})
	assert.Empty(t, res.Products)
	assert.Equal(t, 1, res.TotalPages)
	assert.Equal(t, 1, res.Page)
}

func TestParseSortMode(t *testing.T) {
	assert.Equal(t, SortPriceLow, ParseSortMode("price-low"))
	assert.Equal(t, SortNewest, ParseSortMode(" Newest "))
	assert.Equal(t, SortRelevance, ParseSortMode("cheapest"))
	assert.Equal(t, SortRelevance, ParseSortMode(""))
}
