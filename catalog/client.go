// Package catalog talks to the upstream products API (a json-server shaped
// REST service) and maintains the display-time product snapshot.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"tienda-gateway/models"
)

// ErrNotFound is returned when the upstream does not know the product.
var ErrNotFound = errors.New("product not found")

// Client is the HTTP client for the upstream catalog. It reuses a pooled
// http.Client; per-call deadlines come from the request context.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
			},
		},
	}
}

// FetchProducts loads the full product list.
func (c *Client) FetchProducts(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "catalog: fetch products")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("catalog: fetch products: upstream returned %s", resp.Status)
	}

	var products []models.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, errors.Wrap(err, "catalog: decode product list")
	}
	return products, nil
}

// FetchProduct loads a single product fresh from the upstream, bypassing
// any snapshot. Checkout's pre-commit reads go through here.
func (c *Client) FetchProduct(ctx context.Context, id string) (models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.productURL(id), nil)
	if err != nil {
		return models.Product{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Product{}, errors.Wrapf(err, "catalog: fetch product %s", id)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return models.Product{}, errors.Errorf("catalog: fetch product %s: upstream returned %s", id, resp.Status)
	}

	var product models.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return models.Product{}, errors.Wrapf(err, "catalog: decode product %s", id)
	}
	return product, nil
}

// UpdateStock writes the product back with the new stock level. json-server
// replaces the resource on PUT, so the full object is sent.
func (c *Client) UpdateStock(ctx context.Context, product models.Product, newStock int) (models.Product, error) {
	if newStock < 0 {
		newStock = 0
	}
	product.Stock = newStock

	body, err := json.Marshal(product)
	if err != nil {
		return models.Product{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.productURL(product.ID.String()), bytes.NewReader(body))
	if err != nil {
		return models.Product{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Product{}, errors.Wrapf(err, "catalog: update stock for %s", product.ID)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.Product{}, fmt.Errorf("product %s: %w", product.ID, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return models.Product{}, errors.Errorf("catalog: update stock for %s: upstream returned %s", product.ID, resp.Status)
	}

	var updated models.Product
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return models.Product{}, errors.Wrapf(err, "catalog: decode updated product %s", product.ID)
	}
	return updated, nil
}

func (c *Client) productURL(id string) string {
	return c.baseURL + "/products/" + id
}
