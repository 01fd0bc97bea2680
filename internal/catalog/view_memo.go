package catalog

// View computes visible products over a fixed catalog, memoizing the last
// result. Recomputation is cheap for catalogs of this size; the memo only
// avoids redundant work when the same filter state is requested repeatedly,
// which is the common case for a debounced search input.
//
// View is not safe for concurrent use; the owning session serializes access.
type View struct {
	catalog    []Product
	categories []string

	lastFilter FilterState
	lastResult []Product
	valid      bool
}

// NewView creates a View over the given catalog snapshot.
func NewView(products []Product) *View {
	return &View{
		catalog:    products,
		categories: Categories(products),
	}
}

// Catalog returns the full, unfiltered catalog snapshot.
func (v *View) Catalog() []Product {
	return v.catalog
}

// Categories returns the category selector values, computed once per catalog.
func (v *View) Categories() []string {
	return v.categories
}

// Visible returns the visible products for the filter state, reusing the
// previous result when the filter is unchanged.
func (v *View) Visible(f FilterState) []Product {
	if v.valid && f == v.lastFilter {
		return v.lastResult
	}
	v.lastFilter = f
	v.lastResult = VisibleProducts(v.catalog, f)
	v.valid = true
	return v.lastResult
}

// Lookup returns the catalog product with the given id.
func (v *View) Lookup(id int64) (Product, bool) {
	for _, p := range v.catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}
