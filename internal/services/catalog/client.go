package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"storesync/internal/logger"
	"storesync/internal/metrics"

	"github.com/go-resty/resty/v2"
)

// APIError is returned for any non-2xx response.
type APIError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catalog API %s failed: %d - %s", e.Operation, e.StatusCode, e.Body)
}

type Config struct {
	BaseURL   string
	Token     string
	StoreID   string
	Timeout   time.Duration
	Retrier   Retrier
	UserAgent string
}

// Client reads the remote fulfillment catalog. Every call goes through
// Retry; resty's own retry support stays disabled.
type Client struct {
	http    *resty.Client
	retrier Retrier
	logger  *logger.Logger
}

func NewClient(cfg Config, logger *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "storesync/1.0"
	}

	http := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)
	if cfg.Token != "" {
		http.SetAuthToken(cfg.Token)
	}
	if cfg.StoreID != "" {
		http.SetHeader("X-PF-Store-Id", cfg.StoreID)
	}

	return &Client{
		http:    http,
		retrier: cfg.Retrier,
		logger:  logger,
	}
}

// ListCategories fetches the entire category list in one call.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	return Retry(ctx, c.retrier, func(ctx context.Context) ([]Category, error) {
		var res envelope[categoriesResult]
		if err := c.get(ctx, "list_categories", "/categories", nil, &res); err != nil {
			return nil, err
		}
		return res.Result.Categories, nil
	})
}

// ListProducts fetches one page of the store product index.
func (c *Client) ListProducts(ctx context.Context, offset, limit int) (*ProductPage, error) {
	return Retry(ctx, c.retrier, func(ctx context.Context) (*ProductPage, error) {
		var res envelope[[]ProductSummary]
		query := map[string]string{
			"offset": strconv.Itoa(offset),
			"limit":  strconv.Itoa(limit),
		}
		if err := c.get(ctx, "list_products", "/store/products", query, &res); err != nil {
			return nil, err
		}

		page := &ProductPage{Products: res.Result}
		if res.Paging != nil {
			page.Paging = *res.Paging
		} else {
			// Without paging, a full page implies there may be more.
			total := offset + len(res.Result)
			if limit > 0 && len(res.Result) >= limit {
				total++
			}
			page.Paging = Paging{Total: total, Offset: offset, Limit: limit}
		}
		return page, nil
	})
}

// GetProduct fetches a store product with its full variant list.
func (c *Client) GetProduct(ctx context.Context, id string) (*ProductDetail, error) {
	return Retry(ctx, c.retrier, func(ctx context.Context) (*ProductDetail, error) {
		var res envelope[ProductDetail]
		if err := c.get(ctx, "get_product", "/store/products/"+url.PathEscape(id), nil, &res); err != nil {
			return nil, err
		}
		return &res.Result, nil
	})
}

// GetCatalogProduct fetches the catalog product a store variant is built on.
func (c *Client) GetCatalogProduct(ctx context.Context, id int64) (*CatalogProduct, error) {
	return Retry(ctx, c.retrier, func(ctx context.Context) (*CatalogProduct, error) {
		var res envelope[catalogProductResult]
		path := "/products/" + strconv.FormatInt(id, 10)
		if err := c.get(ctx, "get_catalog_product", path, nil, &res); err != nil {
			return nil, err
		}
		return &res.Result.Product, nil
	})
}

func (c *Client) get(ctx context.Context, op, path string, query map[string]string, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(out).
		Get(path)
	if err != nil {
		metrics.CatalogRequests.WithLabelValues(op, "error").Inc()
		c.logger.Debug("catalog %s request failed: %v", op, err)
		return fmt.Errorf("failed to make request: %w", err)
	}

	if resp.IsError() {
		metrics.CatalogRequests.WithLabelValues(op, strconv.Itoa(resp.StatusCode())).Inc()
		c.logger.Debug("catalog %s returned %d", op, resp.StatusCode())
		return &APIError{Operation: op, StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	metrics.CatalogRequests.WithLabelValues(op, "ok").Inc()
	return nil
}
