package storefront

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"storesync/internal/models"
	"storesync/internal/repository"

	"gorm.io/gorm"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

var ErrProductNotFound = errors.New("product not found")

// ProductQuery selects a page of active products.
type ProductQuery struct {
	CategoryRemoteID *int64
	Page             int
	PageSize         int
}

func (q ProductQuery) normalize() ProductQuery {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

func (q ProductQuery) key() string {
	category := "all"
	if q.CategoryRemoteID != nil {
		category = fmt.Sprintf("%d", *q.CategoryRemoteID)
	}
	return fmt.Sprintf("%s:%d:%d", category, q.Page, q.PageSize)
}

type ProductList struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// CategoryNode is a category with its children, ordered by name.
type CategoryNode struct {
	models.Category
	Children []*CategoryNode `json:"children"`
}

// Catalog serves the storefront read path from the local mirror.
type Catalog struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository

	lists    *Cache[*ProductList]
	details  *Cache[*models.Product]
	category *Cache[[]*CategoryNode]
}

func NewCatalog(products repository.ProductRepository, categories repository.CategoryRepository, ttl time.Duration, clock Clock) *Catalog {
	return &Catalog{
		products:   products,
		categories: categories,
		lists:      NewCache[*ProductList](ttl, clock),
		details:    NewCache[*models.Product](ttl, clock),
		category:   NewCache[[]*CategoryNode](ttl, clock),
	}
}

// ListProducts returns a page of active products, optionally within one
// category.
func (c *Catalog) ListProducts(ctx context.Context, q ProductQuery) (*ProductList, error) {
	q = q.normalize()
	key := q.key()
	if list, ok := c.lists.Get(key); ok {
		return list, nil
	}

	products, total, err := c.products.List(ctx, repository.ProductFilter{
		CategoryRemoteID: q.CategoryRemoteID,
		Page:             q.Page,
		PageSize:         q.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	list := &ProductList{Products: products, Total: total, Page: q.Page, PageSize: q.PageSize}
	c.lists.Set(key, list)
	return list, nil
}

// GetProduct returns an active product with its variants.
func (c *Catalog) GetProduct(ctx context.Context, remoteID string) (*models.Product, error) {
	if product, ok := c.details.Get(remoteID); ok {
		return product, nil
	}

	product, err := c.products.GetWithVariants(ctx, remoteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", remoteID, err)
	}
	if !product.IsActive {
		return nil, ErrProductNotFound
	}

	c.details.Set(remoteID, product)
	return product, nil
}

// ListCategories returns the category forest. Categories whose parent is not
// mirrored become roots.
func (c *Catalog) ListCategories(ctx context.Context) ([]*CategoryNode, error) {
	if roots, ok := c.category.Get("tree"); ok {
		return roots, nil
	}

	categories, err := c.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	roots := BuildTree(categories)
	c.category.Set("tree", roots)
	return roots, nil
}

// Invalidate drops all cached reads. It is called after a successful sync.
func (c *Catalog) Invalidate() {
	c.lists.Purge()
	c.details.Purge()
	c.category.Purge()
}

func BuildTree(categories []models.Category) []*CategoryNode {
	nodes := make(map[int64]*CategoryNode, len(categories))
	for _, cat := range categories {
		nodes[cat.RemoteID] = &CategoryNode{Category: cat, Children: []*CategoryNode{}}
	}

	roots := []*CategoryNode{}
	for _, cat := range categories {
		node := nodes[cat.RemoteID]
		if cat.ParentRemoteID != nil {
			if parent, ok := nodes[*cat.ParentRemoteID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	reached := make(map[*CategoryNode]bool, len(nodes))
	var mark func(n *CategoryNode)
	mark = func(n *CategoryNode) {
		if reached[n] {
			return
		}
		reached[n] = true
		for _, child := range n.Children {
			mark(child)
		}
	}
	for _, root := range roots {
		mark(root)
	}

	// Parent cycles leave their members unreachable from any root. Each
	// cycle is cut above its first member, which becomes a root.
	for _, cat := range categories {
		node := nodes[cat.RemoteID]
		if reached[node] {
			continue
		}
		parent := nodes[*cat.ParentRemoteID]
		parent.Children = removeNode(parent.Children, node)
		roots = append(roots, node)
		mark(node)
	}

	sortNodes(roots)
	return roots
}

func removeNode(nodes []*CategoryNode, target *CategoryNode) []*CategoryNode {
	kept := nodes[:0]
	for _, n := range nodes {
		if n != target {
			kept = append(kept, n)
		}
	}
	return kept
}

func sortNodes(nodes []*CategoryNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Name < nodes[j].Name
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}
