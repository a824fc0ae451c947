package catalog

import "errors"

// Service errors.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductExists   = errors.New("product already exists")
	ErrNotProductOwner = errors.New("product belongs to another seller")
)
