package catalogsync

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"storesync/internal/database"
	"storesync/internal/logger"
	"storesync/internal/repository"
	"storesync/internal/services/catalog"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// fakeClient is an in-memory remote catalog.
type fakeClient struct {
	mu sync.Mutex

	categories    []catalog.Category
	categoriesErr error

	order           []string
	products        map[string]*catalog.ProductDetail
	productErrs     map[string]error
	catalogProducts map[int64]*catalog.CatalogProduct

	pageOffsets []int
	fetched     []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		products:        make(map[string]*catalog.ProductDetail),
		productErrs:     make(map[string]error),
		catalogProducts: make(map[int64]*catalog.CatalogProduct),
	}
}

func (f *fakeClient) addProduct(detail *catalog.ProductDetail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := detail.Product.RemoteID()
	if _, ok := f.products[id]; !ok {
		f.order = append(f.order, id)
	}
	f.products[id] = detail
}

func (f *fakeClient) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.categoriesErr != nil {
		return nil, f.categoriesErr
	}
	return append([]catalog.Category(nil), f.categories...), nil
}

func (f *fakeClient) ListProducts(ctx context.Context, offset, limit int) (*catalog.ProductPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageOffsets = append(f.pageOffsets, offset)

	page := &catalog.ProductPage{
		Products: []catalog.ProductSummary{},
		Paging:   catalog.Paging{Total: len(f.order), Offset: offset, Limit: limit},
	}
	for i := offset; i < offset+limit && i < len(f.order); i++ {
		id, _ := strconv.ParseInt(f.order[i], 10, 64)
		page.Products = append(page.Products, catalog.ProductSummary{ID: id, Name: f.products[f.order[i]].Product.Name})
	}
	return page, nil
}

func (f *fakeClient) GetProduct(ctx context.Context, id string) (*catalog.ProductDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetched = append(f.fetched, id)
	if err := f.productErrs[id]; err != nil {
		return nil, err
	}
	detail, ok := f.products[id]
	if !ok {
		return nil, &catalog.APIError{Operation: "get_product", StatusCode: http.StatusNotFound, Body: "not found"}
	}
	return detail, nil
}

func (f *fakeClient) GetCatalogProduct(ctx context.Context, id int64) (*catalog.CatalogProduct, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp, ok := f.catalogProducts[id]
	if !ok {
		return nil, &catalog.APIError{Operation: "get_catalog_product", StatusCode: http.StatusNotFound, Body: "not found"}
	}
	return cp, nil
}

func productDetail(id int64, name string, variants ...catalog.SyncVariant) *catalog.ProductDetail {
	for i := range variants {
		variants[i].SyncProductID = id
	}
	return &catalog.ProductDetail{
		Product: catalog.SyncProduct{
			ID:           id,
			ExternalID:   fmt.Sprintf("ext-%d", id),
			Name:         name,
			ThumbnailURL: fmt.Sprintf("https://img.example/%d.png", id),
		},
		Variants: variants,
	}
}

func variant(id, catalogProductID int64, options ...catalog.Option) catalog.SyncVariant {
	return catalog.SyncVariant{
		ID:                 id,
		Name:               fmt.Sprintf("variant %d", id),
		RetailPrice:        "25.00",
		Currency:           "USD",
		AvailabilityStatus: "active",
		Product: catalog.CatalogLink{
			ProductID: catalogProductID,
			Image:     "https://catalog.example/blank.png",
		},
		Options: options,
	}
}

type testEnv struct {
	db         *gorm.DB
	client     *fakeClient
	sync       *Orchestrator
	products   repository.ProductRepository
	categories repository.CategoryRepository
	logs       repository.SyncLogRepository
	leases     repository.LeaseRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.New("sqlite://:memory:", gormlogger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	env := &testEnv{
		db:         db.DB,
		client:     newFakeClient(),
		products:   repository.NewProductRepository(db.DB),
		categories: repository.NewCategoryRepository(db.DB),
		logs:       repository.NewSyncLogRepository(db.DB),
		leases:     repository.NewLeaseRepository(db.DB),
	}
	env.sync = NewOrchestrator(Deps{
		Client:     env.client,
		Categories: env.categories,
		Products:   env.products,
		SyncLogs:   env.logs,
		Leases:     env.leases,
		Logger:     logger.Nop(),
	}, Options{})
	return env
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Count(&n).Error)
	return n
}
