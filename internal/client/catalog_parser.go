package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"storefront/client/internal/domain"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

type catalogParser struct{}

func newCatalogParser() *catalogParser {
	return &catalogParser{}
}

func (p *catalogParser) ParseCategories(body []byte) ([]domain.Category, error) {
	return decodeCollection[domain.Category](body)
}

func (p *catalogParser) ParseProducts(body []byte) ([]domain.Product, error) {
	products, err := decodeCollection[domain.Product](body)
	if err != nil {
		return nil, err
	}

	for i := range products {
		p.normalizeProduct(&products[i])
	}
	return products, nil
}

func (p *catalogParser) ParseProduct(body []byte) (*domain.Product, error) {
	var product domain.Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}

	p.normalizeProduct(&product)
	return &product, nil
}

func (p *catalogParser) normalizeProduct(product *domain.Product) {
	product.Name = strings.TrimSpace(product.Name)
	product.Description = plainText(product.Description)

	if product.CategoryName == "" {
		product.CategoryName = product.Category.Label()
	}
}

// decodeCollection accepts either a bare JSON array or an envelope with a
// "results" array, as paginated REST endpoints return. An envelope without
// results is an empty collection.
func decodeCollection[T any](body []byte) ([]T, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, fmt.Errorf("empty response body")
	}

	if body[0] == '[' {
		var items []T
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, fmt.Errorf("failed to decode collection: %w", err)
		}
		return items, nil
	}

	var envelope struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode collection envelope: %w", err)
	}
	if envelope.Results == nil {
		return make([]T, 0), nil
	}
	return envelope.Results, nil
}

// plainText strips HTML markup from rich-text descriptions so searching
// matches what the shopper reads.
func plainText(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		log.Debugf("Keeping raw description, HTML parse failed: %v", err)
		return strings.TrimSpace(s)
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}
