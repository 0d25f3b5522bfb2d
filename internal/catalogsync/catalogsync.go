package catalogsync

import (
	"context"
	"time"

	"storesync/internal/services/catalog"
)

// CatalogClient is the part of the remote catalog API that sync reads.
// *catalog.Client implements it with retries.
type CatalogClient interface {
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	ListProducts(ctx context.Context, offset, limit int) (*catalog.ProductPage, error)
	GetProduct(ctx context.Context, id string) (*catalog.ProductDetail, error)
	GetCatalogProduct(ctx context.Context, id int64) (*catalog.CatalogProduct, error)
}

// Counts tallies rows created and updated by a sync step.
type Counts struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

func (c *Counts) Add(other Counts) {
	c.Added += other.Added
	c.Updated += other.Updated
}

func utcNow() time.Time {
	return time.Now().UTC()
}
