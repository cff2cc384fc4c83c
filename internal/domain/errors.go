package domain

import "errors"

var (
	ErrProductNotFound = errors.New("product not found")
	ErrColorRequired   = errors.New("a color must be selected for this product")
	ErrSizeRequired    = errors.New("a size must be selected for this product")
)
