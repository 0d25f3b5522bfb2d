package catalog

import "strconv"

// envelope is the wrapper every fulfillment API response comes in.
type envelope[T any] struct {
	Code   int     `json:"code"`
	Result T       `json:"result"`
	Paging *Paging `json:"paging,omitempty"`
}

type Paging struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// Category is a node of the remote category list. A zero or missing
// ParentID marks a root.
type Category struct {
	ID       int64  `json:"id"`
	ParentID *int64 `json:"parent_id"`
	ImageURL string `json:"image_url"`
	Title    string `json:"title"`
}

// Parent returns the parent id, or nil for roots.
func (c Category) Parent() *int64 {
	if c.ParentID == nil || *c.ParentID == 0 {
		return nil
	}
	p := *c.ParentID
	return &p
}

type categoriesResult struct {
	Categories []Category `json:"categories"`
}

// ProductSummary is one entry of the paginated store product index.
type ProductSummary struct {
	ID           int64  `json:"id"`
	ExternalID   string `json:"external_id"`
	Name         string `json:"name"`
	Variants     int    `json:"variants"`
	Synced       int    `json:"synced"`
	ThumbnailURL string `json:"thumbnail_url"`
	IsIgnored    bool   `json:"is_ignored"`
}

func (p ProductSummary) RemoteID() string {
	return strconv.FormatInt(p.ID, 10)
}

type ProductPage struct {
	Products []ProductSummary
	Paging   Paging
}

// ProductDetail is the product header plus its full variant list.
type ProductDetail struct {
	Product  SyncProduct   `json:"sync_product"`
	Variants []SyncVariant `json:"sync_variants"`
}

type SyncProduct struct {
	ID           int64  `json:"id"`
	ExternalID   string `json:"external_id"`
	Name         string `json:"name"`
	ThumbnailURL string `json:"thumbnail_url"`
	IsIgnored    bool   `json:"is_ignored"`
}

func (p SyncProduct) RemoteID() string {
	return strconv.FormatInt(p.ID, 10)
}

type SyncVariant struct {
	ID                 int64       `json:"id"`
	ExternalID         string      `json:"external_id"`
	SyncProductID      int64       `json:"sync_product_id"`
	Name               string      `json:"name"`
	Synced             bool        `json:"synced"`
	VariantID          int64       `json:"variant_id"`
	RetailPrice        string      `json:"retail_price"`
	Currency           string      `json:"currency"`
	IsIgnored          bool        `json:"is_ignored"`
	SKU                string      `json:"sku"`
	Product            CatalogLink `json:"product"`
	Files              []File      `json:"files"`
	Options            []Option    `json:"options"`
	AvailabilityStatus string      `json:"availability_status"`
}

// CatalogLink points a store variant at the underlying catalog product.
type CatalogLink struct {
	VariantID int64  `json:"variant_id"`
	ProductID int64  `json:"product_id"`
	Image     string `json:"image"`
	Name      string `json:"name"`
}

type File struct {
	ID         int64  `json:"id"`
	Type       string `json:"type"`
	URL        string `json:"url"`
	PreviewURL string `json:"preview_url"`
	Filename   string `json:"filename"`
}

// Option values are usually strings but may be lists or numbers, so the
// raw value is flattened by the transformer.
type Option struct {
	ID    string      `json:"id"`
	Value interface{} `json:"value"`
}

// CatalogProduct is the generic catalog product behind store variants.
type CatalogProduct struct {
	ID             int64  `json:"id"`
	MainCategoryID int64  `json:"main_category_id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Brand          string `json:"brand"`
	Image          string `json:"image"`
}

type catalogProductResult struct {
	Product CatalogProduct `json:"product"`
}
