package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dhruvxsingh/zenocon-bot/internal/adapter/logger"
	"github.com/dhruvxsingh/zenocon-bot/internal/config"
	"github.com/dhruvxsingh/zenocon-bot/internal/domain"
)

// API lists the products of the business catalog. The cache layer in
// internal/app/catalog owns TTL and fallback behaviour; this client only
// talks HTTP.
type API interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
}

type client struct {
	http     *http.Client
	baseURL  string
	token    string
	catalog  string
	pageSize int
	logger   logger.Logger
}

func NewClient(cfg config.WhatsAppConfig, timeout time.Duration, lgr logger.Logger) API {
	return &client{
		http:     &http.Client{Timeout: timeout},
		baseURL:  cfg.APIBaseURL,
		token:    cfg.AccessToken,
		catalog:  cfg.CatalogID,
		pageSize: 100,
		logger:   lgr,
	}
}

type productPage struct {
	Data []struct {
		ID           string `json:"id"`
		RetailerID   string `json:"retailer_id"`
		Name         string `json:"name"`
		Description  string `json:"description"`
		Price        string `json:"price"`
		Currency     string `json:"currency"`
		Availability string `json:"availability"`
		Category     string `json:"category"`
		ImageURL     string `json:"image_url"`
	} `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// ListProducts walks the paginated product endpoint until the last page.
// Prices arrive as strings and are parsed leniently; a product whose price
// cannot be parsed is kept with a zero price so id resolution still works.
func (c *client) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	url := fmt.Sprintf(
		"%s/%s/products?fields=id,retailer_id,name,description,price,currency,availability,category,image_url&limit=%d",
		c.baseURL, c.catalog, c.pageSize,
	)

	var products []*domain.Product
	for url != "" {
		page, err := c.fetchPage(ctx, url)
		if err != nil {
			return nil, err
		}

		for _, raw := range page.Data {
			price, err := domain.ParsePricePaise(raw.Price)
			if err != nil {
				c.logger.Debug("price_unparseable", "Keeping product with zero price", raw.ID, map[string]interface{}{
					"price": raw.Price,
				})
			}
			products = append(products, &domain.Product{
				ID:          raw.ID,
				RetailerID:  raw.RetailerID,
				Name:        raw.Name,
				PricePaise:  price,
				Currency:    raw.Currency,
				Available:   raw.Availability != "out of stock",
				Category:    raw.Category,
				Description: raw.Description,
				ImageURL:    raw.ImageURL,
			})
		}
		url = page.Paging.Next
	}

	return products, nil
}

func (c *client) fetchPage(ctx context.Context, url string) (*productPage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<14))
		return nil, fmt.Errorf("catalog returned status %d: %s", resp.StatusCode, body)
	}

	var page productPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode catalog page: %w", err)
	}
	return &page, nil
}
