package catalog

import (
	"testing"

	"storesync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformProduct(t *testing.T) {
	tr := NewTransformer()

	p := tr.TransformProduct(SyncProduct{ID: 555, ExternalID: "ext", Name: "Hoodie", ThumbnailURL: "https://t"})
	assert.Equal(t, "555", p.RemoteID)
	require.NotNil(t, p.ExternalID)
	assert.Equal(t, "ext", *p.ExternalID)
	assert.True(t, p.IsActive)

	ignored := tr.TransformProduct(SyncProduct{ID: 556, IsIgnored: true})
	assert.False(t, ignored.IsActive)
	assert.Nil(t, ignored.ExternalID)
}

func TestTransformVariant(t *testing.T) {
	tr := NewTransformer()

	v := SyncVariant{
		ID:                 9001,
		ExternalID:         "v-1",
		Name:               "Hoodie / L / Red",
		RetailPrice:        "39.50",
		Currency:           "usd",
		AvailabilityStatus: "active",
		Files: []File{
			{Type: "default", URL: "https://f/print.png"},
			{Type: "preview", URL: "https://f/full.png", PreviewURL: "https://f/preview.png"},
		},
		Options: []Option{{ID: "size", Value: "L"}, {ID: "color", Value: "Red"}},
	}

	got := tr.TransformVariant(v, "https://catalog/fallback.png")

	assert.Equal(t, int64(9001), got.RemoteVariantID)
	assert.Equal(t, 39.5, got.RetailPrice)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "https://f/preview.png", got.PreviewURL)
	assert.True(t, got.InStock)
	require.NotNil(t, got.Size)
	assert.Equal(t, "L", *got.Size)
	require.NotNil(t, got.Color)
	assert.Equal(t, "Red", *got.Color)
	assert.Equal(t, []models.VariantFile{
		{Type: "default", URL: "https://f/print.png"},
		{Type: "preview", URL: "https://f/full.png"},
	}, got.Files)
	assert.Equal(t, []models.VariantOption{{Key: "size", Value: "L"}, {Key: "color", Value: "Red"}}, got.Options)
}

func TestTransformVariant_FallsBackToCatalogImage(t *testing.T) {
	got := NewTransformer().TransformVariant(SyncVariant{
		ID:    1,
		Files: []File{{Type: "default", URL: "https://f/print.png"}},
	}, "https://catalog/fallback.png")

	assert.Equal(t, "https://catalog/fallback.png", got.PreviewURL)
	assert.Nil(t, got.Size)
	assert.Nil(t, got.Color)
	assert.NotNil(t, got.Files)
	assert.NotNil(t, got.Options)
}

func TestInStock(t *testing.T) {
	assert.True(t, InStock(""))
	assert.True(t, InStock("active"))
	assert.False(t, InStock("discontinued"))
	assert.False(t, InStock("OUT_OF_STOCK"))
	assert.False(t, InStock("temporary_out_of_stock"))
}
