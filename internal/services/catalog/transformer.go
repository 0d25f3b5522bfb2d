package catalog

import (
	"strconv"
	"strings"

	"storesync/internal/models"
)

const filePreview = "preview"

// Out-of-stock availability statuses reported for store variants.
var unavailableStatuses = map[string]bool{
	"discontinued":           true,
	"out_of_stock":           true,
	"stocked_out":            true,
	"temporary_out_of_stock": true,
}

type Transformer struct{}

func NewTransformer() *Transformer {
	return &Transformer{}
}

// TransformProduct converts a remote product header into the local product
// row. Ignored products come out inactive.
func (t *Transformer) TransformProduct(p SyncProduct) *models.Product {
	product := &models.Product{
		RemoteID:     p.RemoteID(),
		Name:         p.Name,
		ThumbnailURL: p.ThumbnailURL,
		IsActive:     !p.IsIgnored,
	}
	if p.ExternalID != "" {
		ext := p.ExternalID
		product.ExternalID = &ext
	}
	return product
}

// VariantFields is a remote variant mapped to local column values. Size and
// Color stay nil when no option names them.
type VariantFields struct {
	RemoteVariantID int64
	ExternalID      string
	Name            string
	Size            *string
	Color           *string
	RetailPrice     float64
	Currency        string
	PreviewURL      string
	Files           []models.VariantFile
	Options         []models.VariantOption
	InStock         bool
}

// TransformVariant maps a remote variant. fallbackImage is used as the
// preview when the variant has no preview file of its own.
func (t *Transformer) TransformVariant(v SyncVariant, fallbackImage string) VariantFields {
	price, _ := strconv.ParseFloat(strings.TrimSpace(v.RetailPrice), 64)

	files := make([]models.VariantFile, 0, len(v.Files))
	for _, f := range v.Files {
		u := f.URL
		if u == "" {
			u = f.PreviewURL
		}
		files = append(files, models.VariantFile{Type: f.Type, URL: u})
	}

	options := make([]models.VariantOption, 0, len(v.Options))
	for _, o := range v.Options {
		options = append(options, models.VariantOption{Key: o.ID, Value: OptionValue(o.Value)})
	}

	preview := PreviewImage(v.Files)
	if preview == "" {
		preview = fallbackImage
	}

	return VariantFields{
		RemoteVariantID: v.ID,
		ExternalID:      v.ExternalID,
		Name:            v.Name,
		Size:            ExtractOption(v.Options, AttributeSize),
		Color:           ExtractOption(v.Options, AttributeColor),
		RetailPrice:     price,
		Currency:        strings.ToUpper(v.Currency),
		PreviewURL:      preview,
		Files:           files,
		Options:         options,
		InStock:         InStock(v.AvailabilityStatus),
	}
}

// PreviewImage returns the first preview-typed file's image, or "".
func PreviewImage(files []File) string {
	for _, f := range files {
		if !strings.EqualFold(f.Type, filePreview) {
			continue
		}
		if u := fileURL(f); u != "" {
			return u
		}
	}
	return ""
}

// InStock reports whether an availability status allows ordering. An empty
// status counts as available.
func InStock(status string) bool {
	return !unavailableStatuses[strings.ToLower(strings.TrimSpace(status))]
}

func fileURL(f File) string {
	if f.PreviewURL != "" {
		return f.PreviewURL
	}
	return f.URL
}
