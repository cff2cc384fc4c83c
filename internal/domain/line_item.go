package domain

import "github.com/shopspring/decimal"

// Variant is the (color, size) selection that distinguishes otherwise
// identical cart lines. Empty strings mean "not selected".
type Variant struct {
	Color string
	Size  string
}

// LineKey identifies a cart line.
type LineKey struct {
	ProductID int64
	Color     string
	Size      string
}

// LineItem is one cart entry. The JSON layout is the persisted cart format.
type LineItem struct {
	ProductID int64  `json:"id"`
	Name      string `json:"name"`
	UnitPrice Price  `json:"price"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity"`
	Color     string `json:"color"`
	Size      string `json:"size"`
	Stock     *int   `json:"stock,omitempty"`
}

func NewLineItem(p Product, quantity int, v Variant) LineItem {
	item := LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Image:     p.Image,
		Quantity:  quantity,
		Color:     v.Color,
		Size:      v.Size,
	}
	if p.Stock != nil {
		stock := *p.Stock
		item.Stock = &stock
	}
	return item
}

func (v Variant) Key(productID int64) LineKey {
	return LineKey{ProductID: productID, Color: v.Color, Size: v.Size}
}

func (l LineItem) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Color: l.Color, Size: l.Size}
}

func (l LineItem) Variant() Variant {
	return Variant{Color: l.Color, Size: l.Size}
}

func (l LineItem) StockLimit() int {
	return stockLimit(l.Stock)
}

func (l LineItem) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
