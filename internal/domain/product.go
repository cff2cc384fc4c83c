package domain

// DefaultStockLimit is the quantity ceiling used when stock is unknown.
const DefaultStockLimit = 999

type Variants struct {
	Colors []string `json:"colors,omitempty"`
	Sizes  []string `json:"sizes,omitempty"`
}

type Product struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Price        Price       `json:"price"`
	Image        string      `json:"image"`
	Category     CategoryRef `json:"category"`
	CategoryName string      `json:"category_name,omitempty"`
	Stock        *int        `json:"stock,omitempty"`
	SellerName   string      `json:"seller_name,omitempty"`
	RatingAvg    float64     `json:"rating_avg,omitempty"`
	RatingCount  int         `json:"rating_count,omitempty"`
	Variants     Variants    `json:"variants"`
	Images       []string    `json:"images,omitempty"`
}

// StockLimit is the most units a shopper may hold of this product.
// A missing or zero stock falls back to DefaultStockLimit.
func (p Product) StockLimit() int {
	return stockLimit(p.Stock)
}

// ClampQuantity bounds a requested quantity to [1, StockLimit()].
func (p Product) ClampQuantity(quantity int) int {
	return max(1, min(quantity, p.StockLimit()))
}

// ValidateVariant reports whether the selection names a color and a size
// whenever the product offers them.
func (p Product) ValidateVariant(v Variant) error {
	if len(p.Variants.Colors) > 0 && v.Color == "" {
		return ErrColorRequired
	}
	if len(p.Variants.Sizes) > 0 && v.Size == "" {
		return ErrSizeRequired
	}
	return nil
}

func stockLimit(stock *int) int {
	if stock == nil || *stock <= 0 {
		return DefaultStockLimit
	}
	return *stock
}
