package catalogsync

import (
	"context"
	"errors"
	"testing"

	"storesync/internal/models"
	"storesync/internal/services/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedCategory makes catalog product 146 resolve to local category 11.
func seedCategory(t *testing.T, env *testEnv) {
	t.Helper()
	env.client.categories = []catalog.Category{{ID: 11, Title: "Hoodies"}}
	env.client.catalogProducts[146] = &catalog.CatalogProduct{ID: 146, MainCategoryID: 11}
	_, err := env.sync.SyncCategories(context.Background())
	require.NoError(t, err)
}

func TestSyncProductDetail_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedCategory(t, env)
	env.client.addProduct(productDetail(555, "Hoodie", variant(9001, 146), variant(9002, 146)))

	first, err := env.sync.products.SyncProductDetail(ctx, "555")
	require.NoError(t, err)
	assert.Equal(t, Counts{Added: 1, Updated: 0}, first)

	second, err := env.sync.products.SyncProductDetail(ctx, "555")
	require.NoError(t, err)
	assert.Equal(t, Counts{Added: 0, Updated: 1}, second)

	assert.Equal(t, int64(1), env.count(t, &models.Product{}))
	assert.Equal(t, int64(2), env.count(t, &models.Variant{}))
	assert.Equal(t, int64(1), env.count(t, &models.ProductCategory{}))
}

func TestSyncProductDetail_StoresProductAndVariants(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	v := variant(9001, 146, catalog.Option{ID: "size", Value: "L"})
	v.RetailPrice = "39.50"
	v.Files = []catalog.File{{Type: "preview", PreviewURL: "https://f/preview.png"}}
	env.client.addProduct(productDetail(555, "Hoodie", v))

	_, err := env.sync.products.SyncProductDetail(ctx, "555")
	require.NoError(t, err)

	product, err := env.products.GetWithVariants(ctx, "555")
	require.NoError(t, err)
	assert.Equal(t, "Hoodie", product.Name)
	assert.True(t, product.IsActive)
	assert.NotNil(t, product.SyncedAt)
	require.NotNil(t, product.ExternalID)
	assert.Equal(t, "ext-555", *product.ExternalID)

	require.Len(t, product.Variants, 1)
	stored := product.Variants[0]
	assert.Equal(t, product.ID, stored.ProductID)
	assert.Equal(t, 39.5, stored.RetailPrice)
	assert.Equal(t, "https://f/preview.png", stored.PreviewURL)
	assert.True(t, stored.InStock)
	require.Len(t, stored.Files, 1)
	assert.Equal(t, "preview", stored.Files[0].Type)
}

func TestSyncProductDetail_DistinctRemoteIDs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.client.addProduct(productDetail(1, "Same Tee"))
	env.client.addProduct(productDetail(2, "Same Tee"))

	_, err := env.sync.products.SyncProductDetail(ctx, "1")
	require.NoError(t, err)
	counts, err := env.sync.products.SyncProductDetail(ctx, "2")
	require.NoError(t, err)

	assert.Equal(t, Counts{Added: 1}, counts)
	assert.Equal(t, int64(2), env.count(t, &models.Product{}))
}

func TestSyncProductDetail_OptionExtraction(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.client.addProduct(productDetail(555, "Tee",
		variant(1, 0, catalog.Option{ID: "size", Value: "L"}, catalog.Option{ID: "color", Value: "Red"}),
		variant(2, 0, catalog.Option{ID: "material", Value: "Cotton"}),
	))

	_, err := env.sync.products.SyncProductDetail(ctx, "555")
	require.NoError(t, err)

	sized, err := env.products.GetVariantByRemoteID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, sized.Size)
	require.NotNil(t, sized.Color)
	assert.Equal(t, "L", *sized.Size)
	assert.Equal(t, "Red", *sized.Color)

	plain, err := env.products.GetVariantByRemoteID(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, plain.Size)
	assert.Nil(t, plain.Color)
}

func TestSyncProductDetail_KeepsSizeWhenOptionDisappears(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.client.addProduct(productDetail(555, "Tee", variant(1, 0, catalog.Option{ID: "size", Value: "L"})))
	_, err := env.sync.products.SyncProductDetail(ctx, "555")
	require.NoError(t, err)

	changed := variant(1, 0, catalog.Option{ID: "material", Value: "Cotton"})
	changed.AvailabilityStatus = "discontinued"
	env.client.addProduct(productDetail(555, "Tee", changed))
	_, err = env.sync.products.SyncProductDetail(ctx, "555")
	require.NoError(t, err)

	got, err := env.products.GetVariantByRemoteID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got.Size)
	assert.Equal(t, "L", *got.Size)
	assert.False(t, got.InStock)
	require.Len(t, got.Options, 1)
	assert.Equal(t, "material", got.Options[0].Key)
}

func TestSyncProductDetail_IgnoredProductIsInactive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	detail := productDetail(555, "Hidden")
	detail.Product.IsIgnored = true
	env.client.addProduct(detail)

	_, err := env.sync.products.SyncProductDetail(ctx, "555")
	require.NoError(t, err)

	product, err := env.products.GetByRemoteID(ctx, "555")
	require.NoError(t, err)
	assert.False(t, product.IsActive)

	// A product that is no longer ignored comes back on the next sync.
	detail = productDetail(555, "Hidden")
	env.client.addProduct(detail)
	_, err = env.sync.products.SyncProductDetail(ctx, "555")
	require.NoError(t, err)

	product, err = env.products.GetByRemoteID(ctx, "555")
	require.NoError(t, err)
	assert.True(t, product.IsActive)
}

func TestSyncProductDetail_CategoryFailureIsSwallowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	// Catalog product 999 is unknown remotely.
	env.client.addProduct(productDetail(555, "Tee", variant(1, 999)))

	counts, err := env.sync.products.SyncProductDetail(ctx, "555")
	require.NoError(t, err)
	assert.Equal(t, Counts{Added: 1}, counts)
	assert.Equal(t, int64(0), env.count(t, &models.ProductCategory{}))
}

func TestSyncProductDetail_UnsyncedCategoryIsSkipped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.client.catalogProducts[146] = &catalog.CatalogProduct{ID: 146, MainCategoryID: 77}
	env.client.addProduct(productDetail(555, "Tee", variant(1, 146)))

	_, err := env.sync.products.SyncProductDetail(ctx, "555")
	require.NoError(t, err)
	assert.Equal(t, int64(0), env.count(t, &models.ProductCategory{}))
}

func TestSyncProductDetail_FetchErrorPropagates(t *testing.T) {
	env := newTestEnv(t)
	remoteErr := errors.New("connection reset")
	env.client.productErrs["555"] = remoteErr

	counts, err := env.sync.products.SyncProductDetail(context.Background(), "555")
	assert.ErrorIs(t, err, remoteErr)
	assert.Equal(t, Counts{}, counts)
	assert.Equal(t, int64(0), env.count(t, &models.Product{}))
}

func TestDeactivateProduct_SoftDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedCategory(t, env)
	env.client.addProduct(productDetail(555, "Hoodie", variant(9001, 146)))
	_, err := env.sync.products.SyncProductDetail(ctx, "555")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		found, err := env.sync.DeactivateProduct(ctx, "555")
		require.NoError(t, err)
		assert.True(t, found)
	}

	product, err := env.products.GetWithVariants(ctx, "555")
	require.NoError(t, err)
	assert.False(t, product.IsActive)
	require.Len(t, product.Variants, 1)
	assert.True(t, product.Variants[0].InStock)

	links, err := env.products.CategoryLinks(ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, links, 1)

	found, err := env.sync.DeactivateProduct(ctx, "404")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateVariantStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.client.addProduct(productDetail(555, "Hoodie", variant(9001, 0)))
	_, err := env.sync.products.SyncProductDetail(ctx, "555")
	require.NoError(t, err)

	found, err := env.sync.UpdateVariantStock(ctx, 9001, false)
	require.NoError(t, err)
	assert.True(t, found)

	v, err := env.products.GetVariantByRemoteID(ctx, 9001)
	require.NoError(t, err)
	assert.False(t, v.InStock)

	found, err = env.sync.UpdateVariantStock(ctx, 9001, true)
	require.NoError(t, err)
	assert.True(t, found)

	v, err = env.products.GetVariantByRemoteID(ctx, 9001)
	require.NoError(t, err)
	assert.True(t, v.InStock)

	found, err = env.sync.UpdateVariantStock(ctx, 1234, true)
	require.NoError(t, err)
	assert.False(t, found)
}
