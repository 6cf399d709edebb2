package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storefront-next/internal/config"
)

func newCatalogServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var requests []string
	mux := http.NewServeMux()
	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RequestURI())
		_, _ = w.Write([]byte(`{"products":[{"id":1,"title":"Essence Mascara","price":9.99,"rating":4.94,"stock":5,"category":"beauty","thumbnail":"t.png","images":["a.png","b.png"]}],"total":194,"skip":0,"limit":1}`))
	})
	mux.HandleFunc("/products/1", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RequestURI())
		_, _ = w.Write([]byte(`{"id":1,"title":"Essence Mascara","price":9.99,"discountPercentage":7.17,"category":"beauty"}`))
	})
	mux.HandleFunc("/products/999", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Product with id '999' not found"}`))
	})
	mux.HandleFunc("/products/search", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RequestURI())
		_, _ = w.Write([]byte(`{"products":[{"id":2,"title":"Phone","price":"499.5"}],"total":1,"skip":0,"limit":30}`))
	})
	mux.HandleFunc("/products/categories", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"slug":"beauty","name":"Beauty","url":"https://dummyjson.com/products/category/beauty"},"home-decoration"]`))
	})
	mux.HandleFunc("/products/category/beauty", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.RequestURI())
		_, _ = w.Write([]byte(`{"products":[{"id":1,"title":"Essence Mascara","price":9.99}],"total":5,"skip":0,"limit":30}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &requests
}

func TestListProductsParsesPage(t *testing.T) {
	server, requests := newCatalogServer(t)
	client := NewClient(config.CatalogConfig{BaseURL: server.URL})

	page, err := client.ListProducts(context.Background(), 1, 0)
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if page.Total != 194 || len(page.Products) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	product := page.Products[0]
	if product.ID != 1 || product.Price.String() != "9.99" || len(product.Images) != 2 {
		t.Fatalf("unexpected product: %+v", product)
	}
	if (*requests)[0] != "/products?limit=1" {
		t.Fatalf("unexpected request uri: %s", (*requests)[0])
	}
}

func TestListProductsClampsLimit(t *testing.T) {
	server, requests := newCatalogServer(t)
	client := NewClient(config.CatalogConfig{BaseURL: server.URL})
	if _, err := client.ListProducts(context.Background(), 1000, 20); err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if (*requests)[0] != "/products?limit=100&skip=20" {
		t.Fatalf("unexpected request uri: %s", (*requests)[0])
	}
}

func TestGetProduct(t *testing.T) {
	server, _ := newCatalogServer(t)
	client := NewClient(config.CatalogConfig{BaseURL: server.URL})

	product, err := client.GetProduct(context.Background(), 1)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if product.Title != "Essence Mascara" || product.DiscountPercentage != 7.17 {
		t.Fatalf("unexpected product: %+v", product)
	}
	if _, err := client.GetProduct(context.Background(), 999); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := client.GetProduct(context.Background(), 0); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected not found for invalid id, got %v", err)
	}
}

func TestSearchAcceptsStringPrice(t *testing.T) {
	server, requests := newCatalogServer(t)
	client := NewClient(config.CatalogConfig{BaseURL: server.URL})

	page, err := client.Search(context.Background(), " phone ", 0, 0)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(page.Products) != 1 || page.Products[0].Price.String() != "499.50" {
		t.Fatalf("unexpected search page: %+v", page)
	}
	if (*requests)[0] != "/products/search?limit=30&q=phone" {
		t.Fatalf("unexpected request uri: %s", (*requests)[0])
	}
	if _, err := client.Search(context.Background(), "  ", 0, 0); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected invalid query, got %v", err)
	}
}

func TestListCategoriesMixedShapes(t *testing.T) {
	server, _ := newCatalogServer(t)
	client := NewClient(config.CatalogConfig{BaseURL: server.URL})

	categories, err := client.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories failed: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].Slug != "beauty" || categories[0].URL == "" {
		t.Fatalf("unexpected object category: %+v", categories[0])
	}
	if categories[1].Slug != "home-decoration" || categories[1].Name != "Home Decoration" {
		t.Fatalf("unexpected string category: %+v", categories[1])
	}
}

func TestListByCategory(t *testing.T) {
	server, _ := newCatalogServer(t)
	client := NewClient(config.CatalogConfig{BaseURL: server.URL})

	page, err := client.ListByCategory(context.Background(), "beauty", 0, 0)
	if err != nil {
		t.Fatalf("list by category failed: %v", err)
	}
	if page.Total != 5 || len(page.Products) != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if _, err := client.ListByCategory(context.Background(), "../admin", 0, 0); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected invalid query, got %v", err)
	}
}

func TestUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()
	client := NewClient(config.CatalogConfig{BaseURL: server.URL})
	if _, err := client.ListProducts(context.Background(), 10, 0); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}
