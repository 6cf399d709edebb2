package catalog

import (
	"strings"

	"github.com/storefront-next/internal/models"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

func parseProductPage(body []byte) *models.ProductPage {
	result := gjson.ParseBytes(body)
	items := result.Get("products").Array()
	page := &models.ProductPage{
		Products: make([]models.Product, 0, len(items)),
		Total:    int(result.Get("total").Int()),
		Skip:     int(result.Get("skip").Int()),
		Limit:    int(result.Get("limit").Int()),
	}
	for _, item := range items {
		page.Products = append(page.Products, parseProduct(item))
	}
	return page
}

func parseProduct(item gjson.Result) models.Product {
	price, err := decimal.NewFromString(item.Get("price").String())
	if err != nil {
		price = decimal.Zero
	}
	images := item.Get("images").Array()
	product := models.Product{
		ID:                 int(item.Get("id").Int()),
		Title:              item.Get("title").String(),
		Description:        item.Get("description").String(),
		Price:              models.NewMoneyFromDecimal(price),
		DiscountPercentage: item.Get("discountPercentage").Float(),
		Rating:             item.Get("rating").Float(),
		Stock:              int(item.Get("stock").Int()),
		Brand:              item.Get("brand").String(),
		Category:           item.Get("category").String(),
		Thumbnail:          item.Get("thumbnail").String(),
		Images:             make([]string, 0, len(images)),
	}
	for _, image := range images {
		product.Images = append(product.Images, image.String())
	}
	return product
}

// parseCategories 旧版接口返回字符串数组，新版返回 {slug,name,url}
func parseCategories(result gjson.Result) []models.Category {
	items := result.Array()
	categories := make([]models.Category, 0, len(items))
	for _, item := range items {
		if item.Type == gjson.String {
			slug := strings.TrimSpace(item.String())
			if slug == "" {
				continue
			}
			categories = append(categories, models.Category{Slug: slug, Name: categoryName(slug)})
			continue
		}
		slug := strings.TrimSpace(item.Get("slug").String())
		name := strings.TrimSpace(item.Get("name").String())
		if slug == "" {
			slug = name
		}
		if slug == "" {
			continue
		}
		if name == "" {
			name = categoryName(slug)
		}
		categories = append(categories, models.Category{
			Slug: slug,
			Name: name,
			URL:  item.Get("url").String(),
		})
	}
	return categories
}

func categoryName(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool { return r == '-' || r == '_' })
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
