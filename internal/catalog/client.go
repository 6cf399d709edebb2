package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/storefront-next/internal/cache"
	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/metrics"
	"github.com/storefront-next/internal/models"

	"github.com/tidwall/gjson"
)

var (
	ErrCatalogUnavailable = errors.New("catalog request failed")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidQuery       = errors.New("invalid catalog query")
)

const (
	defaultBaseURL = "https://dummyjson.com"
	defaultLimit   = 30
	maxLimit       = 100
	maxBodyBytes   = 4 << 20
)

// Client 商品目录只读客户端
type Client struct {
	baseURL  string
	client   *http.Client
	cacheTTL time.Duration
}

// NewClient 创建目录客户端
func NewClient(cfg config.CatalogConfig) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
		cacheTTL: time.Duration(cfg.CacheTTLSeconds) * time.Second,
	}
}

// ListProducts 分页列出商品
func (c *Client) ListProducts(ctx context.Context, limit, skip int) (*models.ProductPage, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(normalizeLimit(limit)))
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	body, err := c.fetch(ctx, "list", "/products", query)
	if err != nil {
		return nil, err
	}
	return parseProductPage(body), nil
}

// GetProduct 按 ID 获取商品
func (c *Client) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	if id <= 0 {
		return nil, ErrProductNotFound
	}
	body, err := c.fetch(ctx, "detail", "/products/"+strconv.Itoa(id), nil)
	if err != nil {
		return nil, err
	}
	result := gjson.ParseBytes(body)
	if !result.Get("id").Exists() {
		return nil, ErrProductNotFound
	}
	product := parseProduct(result)
	return &product, nil
}

// Search 按关键字搜索商品
func (c *Client) Search(ctx context.Context, keyword string, limit, skip int) (*models.ProductPage, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, ErrInvalidQuery
	}
	query := url.Values{}
	query.Set("q", keyword)
	query.Set("limit", strconv.Itoa(normalizeLimit(limit)))
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	body, err := c.fetch(ctx, "search", "/products/search", query)
	if err != nil {
		return nil, err
	}
	return parseProductPage(body), nil
}

// ListCategories 列出分类，兼容字符串数组与对象数组两种返回
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	body, err := c.fetch(ctx, "categories", "/products/categories", nil)
	if err != nil {
		return nil, err
	}
	return parseCategories(gjson.ParseBytes(body)), nil
}

// ListByCategory 列出分类下的商品
func (c *Client) ListByCategory(ctx context.Context, slug string, limit, skip int) (*models.ProductPage, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" || strings.ContainsAny(slug, "/?#") {
		return nil, ErrInvalidQuery
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(normalizeLimit(limit)))
	if skip > 0 {
		query.Set("skip", strconv.Itoa(skip))
	}
	body, err := c.fetch(ctx, "category", "/products/category/"+url.PathEscape(slug), query)
	if err != nil {
		return nil, err
	}
	return parseProductPage(body), nil
}

// fetch 先查缓存，未命中再请求远端并回写
func (c *Client) fetch(ctx context.Context, endpoint, path string, query url.Values) ([]byte, error) {
	rawQuery := ""
	if query != nil {
		rawQuery = query.Encode()
	}
	key := cache.CatalogKey(path, rawQuery)
	if cached, ok, err := cache.GetCatalogPayload(ctx, key); err != nil {
		logger.Debugw("catalog_cache_get_failed", "key", key, "error", err)
	} else if ok {
		if gjson.Valid(cached) {
			metrics.RecordCatalog(endpoint, "cache")
			return []byte(cached), nil
		}
		// 损坏的缓存直接淘汰，回源重取
		if err := cache.DeleteCatalogPayload(ctx, key); err != nil {
			logger.Debugw("catalog_cache_del_failed", "key", key, "error", err)
		}
	}

	target := c.baseURL + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordCatalog(endpoint, "error")
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordCatalog(endpoint, "error")
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		metrics.RecordCatalog(endpoint, "not_found")
		return nil, ErrProductNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordCatalog(endpoint, "error")
		return nil, fmt.Errorf("%w: http status %d", ErrCatalogUnavailable, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		metrics.RecordCatalog(endpoint, "error")
		return nil, fmt.Errorf("%w: invalid json", ErrCatalogUnavailable)
	}
	metrics.RecordCatalog(endpoint, "remote")

	if err := cache.SetCatalogPayload(ctx, key, string(body), c.cacheTTL); err != nil {
		logger.Debugw("catalog_cache_set_failed", "key", key, "error", err)
	}
	return body, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
