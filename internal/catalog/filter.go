package catalog

import (
	"cmp"
	"slices"
	"strings"

	"storefront/client/internal/domain"

	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// PageSize is the number of products on one page.
const PageSize = 12

type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortPriceLow  SortMode = "price-low"
	SortPriceHigh SortMode = "price-high"
	SortName      SortMode = "name"
	SortNewest    SortMode = "newest"
)

var SortModes = []SortMode{
	SortRelevance,
	SortPriceLow,
	SortPriceHigh,
	SortName,
	SortNewest,
}

// ParseSortMode maps unknown input to SortRelevance.
func ParseSortMode(s string) SortMode {
	mode := SortMode(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortModes, mode) {
		return mode
	}
	return SortRelevance
}

// Snapshot is the read-only catalog data for one filtering pass.
type Snapshot struct {
	Categories []domain.Category
	Products   []domain.Product
}

// PriceRange bounds are inclusive; a nil bound is not applied.
type PriceRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

type Criteria struct {
	Category string
	Query    string
	Price    PriceRange
	Sort     SortMode
	Page     int
}

type Result struct {
	// Products is the current page.
	Products []domain.Product
	// Matched holds every product that passed the filters, sorted.
	Matched    []domain.Product
	Total      int
	TotalPages int
	Page       int
	// Category is the snapshot category the criteria resolved to, if any.
	Category *domain.Category
}

// Filter derives visible products from a snapshot. The zero value sorts
// names with the root collation.
type Filter struct {
	locale language.Tag
}

func NewFilter(locale language.Tag) *Filter {
	return &Filter{locale: locale}
}

// Derive filters, sorts and paginates the snapshot. It never fails:
// products with missing fields are kept or dropped by their zero values.
func (f *Filter) Derive(snapshot Snapshot, criteria Criteria) Result {
	active := ResolveCategory(snapshot.Categories, criteria.Category)

	identifier := strings.TrimSpace(criteria.Category)
	if active != nil {
		identifier = active.Identifier()
	}
	identifier = strings.ToLower(identifier)
	query := strings.ToLower(strings.TrimSpace(criteria.Query))

	matched := make([]domain.Product, 0, len(snapshot.Products))
	for _, p := range snapshot.Products {
		if !MatchesCategory(p.Category, identifier) {
			continue
		}
		if !matchesQuery(p, query) {
			continue
		}
		if !criteria.Price.Contains(p.Price.Decimal) {
			continue
		}
		matched = append(matched, p)
	}

	f.sort(matched, criteria.Sort)

	totalPages := TotalPages(len(matched))
	page := ClampPage(criteria.Page, totalPages)
	start := min((page-1)*PageSize, len(matched))
	end := min(start+PageSize, len(matched))

	return Result{
		Products:   matched[start:end],
		Matched:    matched,
		Total:      len(matched),
		TotalPages: totalPages,
		Page:       page,
		Category:   active,
	}
}

// Derive runs a Filter with the root collation.
func Derive(snapshot Snapshot, criteria Criteria) Result {
	return (&Filter{locale: language.Und}).Derive(snapshot, criteria)
}

// TotalPages is ceil(count / PageSize), never less than 1.
func TotalPages(count int) int {
	return max(1, (count+PageSize-1)/PageSize)
}

// ClampPage bounds page to [1, totalPages].
func ClampPage(page, totalPages int) int {
	return max(1, min(page, totalPages))
}

// ResolveCategory finds the category whose slug, name or id equals param,
// ignoring case.
func ResolveCategory(categories []domain.Category, param string) *domain.Category {
	param = strings.ToLower(strings.TrimSpace(param))
	if param == "" {
		return nil
	}

	for i := range categories {
		key := domain.ObjectRef(categories[i]).Normalize()
		if key.Slug == param || key.Name == param || key.ID == param {
			c := categories[i]
			return &c
		}
	}
	return nil
}

// MatchesCategory reports whether a product category reference matches a
// lower-cased identifier. Exact matches on id, name or slug come first;
// after that substring containment in either direction is accepted
// because upstream references are not consistently denormalized.
func MatchesCategory(ref domain.CategoryRef, identifier string) bool {
	if identifier == "" {
		return true
	}

	key := ref.Normalize()
	for _, v := range []string{key.ID, key.Name, key.Slug} {
		if v != "" && v == identifier {
			return true
		}
	}

	var fuzzy []string
	switch ref.Kind {
	case domain.CategoryRefText:
		fuzzy = []string{key.Name}
	case domain.CategoryRefNumber:
		fuzzy = []string{key.ID}
	case domain.CategoryRefObject:
		fuzzy = []string{key.Name, key.Slug}
	}

	for _, v := range fuzzy {
		if v == "" {
			continue
		}
		if strings.Contains(v, identifier) || strings.Contains(identifier, v) {
			return true
		}
	}
	return false
}

func (r PriceRange) Contains(price decimal.Decimal) bool {
	if r.Min != nil && price.LessThan(*r.Min) {
		return false
	}
	if r.Max != nil && price.GreaterThan(*r.Max) {
		return false
	}
	return true
}

func matchesQuery(p domain.Product, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), query) ||
		strings.Contains(strings.ToLower(p.Description), query)
}

func (f *Filter) sort(products []domain.Product, mode SortMode) {
	switch mode {
	case SortPriceLow:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return a.Price.Cmp(b.Price.Decimal)
		})
	case SortPriceHigh:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return b.Price.Cmp(a.Price.Decimal)
		})
	case SortName:
		collator := collate.New(f.locale)
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return collator.CompareString(a.Name, b.Name)
		})
	case SortNewest:
		slices.SortStableFunc(products, func(a, b domain.Product) int {
			return cmp.Compare(b.ID, a.ID)
		})
	}
}
