package service

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrCatalogUnavailable  = errors.New("catalog unavailable")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrCheckoutItemInvalid = errors.New("cart item has no external product id")
	ErrInvalidSlug         = errors.New("invalid slug")
	ErrSessionInvalid      = errors.New("visitor session invalid")
	ErrSSOUnavailable      = errors.New("sso login url unavailable")
	ErrReviewInvalid       = errors.New("review name, rating and description are required")
)
