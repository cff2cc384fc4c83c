package catalog

// Browser keeps the filter state of one browsing session. Changing any
// criterion other than the page sends the shopper back to page 1.
type Browser struct {
	filter   *Filter
	snapshot Snapshot
	criteria Criteria
}

func NewBrowser(filter *Filter, snapshot Snapshot, criteria Criteria) *Browser {
	if filter == nil {
		filter = &Filter{}
	}
	if criteria.Sort == "" {
		criteria.Sort = SortRelevance
	}
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	return &Browser{
		filter:   filter,
		snapshot: snapshot,
		criteria: criteria,
	}
}

func (b *Browser) Criteria() Criteria {
	return b.criteria
}

// SetSnapshot swaps the catalog data, e.g. after a refetch. The page is
// kept and clamped on the next Result.
func (b *Browser) SetSnapshot(snapshot Snapshot) {
	b.snapshot = snapshot
}

func (b *Browser) SetCategory(category string) {
	b.criteria.Category = category
	b.criteria.Page = 1
}

func (b *Browser) SetQuery(query string) {
	b.criteria.Query = query
	b.criteria.Page = 1
}

func (b *Browser) SetPriceRange(r PriceRange) {
	b.criteria.Price = r
	b.criteria.Page = 1
}

func (b *Browser) SetSort(mode SortMode) {
	b.criteria.Sort = mode
	b.criteria.Page = 1
}

func (b *Browser) SetPage(page int) {
	b.criteria.Page = page
}

// ClearFilters resets query, price range, sort and page. The category is
// part of the location, not a filter, and stays.
func (b *Browser) ClearFilters() {
	b.criteria.Query = ""
	b.criteria.Price = PriceRange{}
	b.criteria.Sort = SortRelevance
	b.criteria.Page = 1
}

// Result derives the current view and stores the clamped page back so a
// page that no longer exists is not requested again.
func (b *Browser) Result() Result {
	res := b.filter.Derive(b.snapshot, b.criteria)
	b.criteria.Page = res.Page
	return res
}
