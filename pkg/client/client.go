package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/s0lar1s/kolichka/pkg/domain"
)

// requestTimeout is the fixed HTTP timeout; a timed-out call is treated the
// same as any other network failure.
const requestTimeout = 10 * time.Second

// TokenSource supplies the bearer token attached to outgoing requests. The
// token is read at request-build time, so a login or logout between two calls
// takes effect on the very next request. An empty token sends the request
// unauthenticated.
type TokenSource interface {
	AccessToken() string
}

// StaticToken is a fixed-token TokenSource, mainly for tests.
type StaticToken string

// AccessToken returns the fixed token.
func (t StaticToken) AccessToken() string { return string(t) }

// Client is the kome storefront API client.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// New creates a new API client. tokens may be nil for a client that never
// authenticates.
func New(baseURL string, tokens TokenSource) *Client {
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// --- Auth ---

// AuthResult is the response body of the login and register endpoints. The
// caller must check OK and User; the server reports business failures with
// ok=false rather than an error status.
type AuthResult struct {
	OK          bool         `json:"ok"`
	User        *domain.User `json:"user"`
	AccessToken string       `json:"accessToken"`
	Error       string       `json:"error,omitempty"`
}

// Login authenticates with email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/login", body, &res); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &res, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	var res AuthResult
	body := map[string]string{"email": email, "password": password, "name": name}
	if err := c.post(ctx, "/register", body, &res); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &res, nil
}

// --- Client cards ---

// CardInfo is the current card plus the virtual-card hint for the account.
type CardInfo struct {
	Card             *domain.ClientCard `json:"card"`
	VirtualAvailable bool               `json:"virtual_available"`
	VirtualCcnum     string             `json:"virtual_ccnum"`
}

// ClientCard fetches the account's current card and virtual-card hints.
func (c *Client) ClientCard(ctx context.Context) (*CardInfo, error) {
	var info CardInfo
	if err := c.get(ctx, "/client-cards", &info); err != nil {
		return nil, fmt.Errorf("client.ClientCard: %w", err)
	}
	return &info, nil
}

// SetClientCard sets or replaces the account's card.
func (c *Client) SetClientCard(ctx context.Context, ccnum string) (*domain.ClientCard, error) {
	var res struct {
		Card *domain.ClientCard `json:"card"`
	}
	if err := c.post(ctx, "/client-cards", map[string]string{"ccnum": ccnum}, &res); err != nil {
		return nil, fmt.Errorf("client.SetClientCard: %w", err)
	}
	if res.Card == nil {
		res.Card = &domain.ClientCard{Ccnum: ccnum}
	}
	return res.Card, nil
}

// RemoveClientCard detaches the account's card.
func (c *Client) RemoveClientCard(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/client-cards", nil, nil); err != nil {
		return fmt.Errorf("client.RemoveClientCard: %w", err)
	}
	return nil
}

// CreateVirtualCard submits a virtual-card application and returns the issued
// card number. The endpoint has shipped three response shapes over time, so
// all of them are accepted.
func (c *Client) CreateVirtualCard(ctx context.Context, app domain.VirtualCardApplication) (string, error) {
	var res struct {
		Ccnum        string             `json:"ccnum"`
		Card         *domain.ClientCard `json:"card"`
		VirtualCcnum string             `json:"virtual_ccnum"`
	}
	if err := c.post(ctx, "/client-cards/virtual", app, &res); err != nil {
		return "", fmt.Errorf("client.CreateVirtualCard: %w", err)
	}
	switch {
	case res.Ccnum != "":
		return res.Ccnum, nil
	case res.Card != nil && res.Card.Ccnum != "":
		return res.Card.Ccnum, nil
	case res.VirtualCcnum != "":
		return res.VirtualCcnum, nil
	}
	return "", fmt.Errorf("client.CreateVirtualCard: response carries no card number")
}

// --- Shopping list ---

// ShoppingList fetches the server-side shopping list.
func (c *Client) ShoppingList(ctx context.Context) ([]domain.ShoppingItem, error) {
	var items []domain.ShoppingItem
	if err := c.get(ctx, "/shopping-list", &items); err != nil {
		return nil, fmt.Errorf("client.ShoppingList: %w", err)
	}
	return items, nil
}

// CreateShoppingItem creates a list item. The returned item may lack an id on
// older servers; callers resynchronize with a full load in that case.
func (c *Client) CreateShoppingItem(ctx context.Context, title string) (*domain.ShoppingItem, error) {
	var item domain.ShoppingItem
	if err := c.post(ctx, "/shopping-list", map[string]string{"title": title}, &item); err != nil {
		return nil, fmt.Errorf("client.CreateShoppingItem: %w", err)
	}
	return &item, nil
}

// UpdateShoppingItem renames a list item.
func (c *Client) UpdateShoppingItem(ctx context.Context, id domain.ItemID, title string) error {
	body := map[string]any{"id": id, "title": title}
	if err := c.doRequest(ctx, http.MethodPut, "/shopping-list", body, nil); err != nil {
		return fmt.Errorf("client.UpdateShoppingItem: %w", err)
	}
	return nil
}

// ToggleShoppingItem sets the done state of a list item.
func (c *Client) ToggleShoppingItem(ctx context.Context, id domain.ItemID, isDone int) error {
	body := map[string]any{"id": id, "is_done": isDone}
	if err := c.doRequest(ctx, http.MethodPatch, "/shopping-list", body, nil); err != nil {
		return fmt.Errorf("client.ToggleShoppingItem: %w", err)
	}
	return nil
}

// DeleteShoppingItem removes a list item.
func (c *Client) DeleteShoppingItem(ctx context.Context, id domain.ItemID) error {
	body := map[string]any{"id": id}
	if err := c.doRequest(ctx, http.MethodDelete, "/shopping-list", body, nil); err != nil {
		return fmt.Errorf("client.DeleteShoppingItem: %w", err)
	}
	return nil
}

// --- Catalog ---

// Banners fetches the home screen banners.
func (c *Client) Banners(ctx context.Context) ([]domain.Banner, error) {
	var banners []domain.Banner
	if err := c.get(ctx, "/banners", &banners); err != nil {
		return nil, fmt.Errorf("client.Banners: %w", err)
	}
	return banners, nil
}

// Brochures fetches the current brochures.
func (c *Client) Brochures(ctx context.Context) ([]domain.Brochure, error) {
	var brochures []domain.Brochure
	if err := c.get(ctx, "/brochures", &brochures); err != nil {
		return nil, fmt.Errorf("client.Brochures: %w", err)
	}
	return brochures, nil
}

// Shops fetches all store locations.
func (c *Client) Shops(ctx context.Context) ([]domain.Shop, error) {
	var shops []domain.Shop
	if err := c.get(ctx, "/shops", &shops); err != nil {
		return nil, fmt.Errorf("client.Shops: %w", err)
	}
	return shops, nil
}

// HomeProducts fetches the short product selection for the home carousel.
func (c *Client) HomeProducts(ctx context.Context, limit int, category string) ([]domain.Product, error) {
	params := url.Values{}
	params.Set("mode", "home")
	params.Set("limit", strconv.Itoa(limit))
	if category != "" {
		params.Set("category", category)
	}

	var products []domain.Product
	if err := c.get(ctx, "/products?"+params.Encode(), &products); err != nil {
		return nil, fmt.Errorf("client.HomeProducts: %w", err)
	}
	return products, nil
}

// ProductPage is one page of the full product catalog.
type ProductPage struct {
	Data []domain.Product `json:"data"`
	Meta domain.PageMeta  `json:"meta"`
}

// Products fetches a page of the full product catalog.
func (c *Client) Products(ctx context.Context, page, limit int, category string) (*ProductPage, error) {
	params := url.Values{}
	params.Set("mode", "all")
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	if category != "" {
		params.Set("category", category)
	}

	var res ProductPage
	if err := c.get(ctx, "/products?"+params.Encode(), &res); err != nil {
		return nil, fmt.Errorf("client.Products: %w", err)
	}
	return &res, nil
}

// Product fetches a single product by id.
func (c *Client) Product(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := c.get(ctx, "/products?id="+strconv.FormatInt(id, 10), &p); err != nil {
		return nil, fmt.Errorf("client.Product: %w", err)
	}
	return &p, nil
}

// PromoCodePage is one page of promo codes.
type PromoCodePage struct {
	Data []domain.PromoCode `json:"data"`
	Meta domain.PageMeta    `json:"meta"`
}

// PromoCodes fetches a page of promo codes.
func (c *Client) PromoCodes(ctx context.Context, page, limit int, category string) (*PromoCodePage, error) {
	params := url.Values{}
	params.Set("mode", "all")
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	if category != "" {
		params.Set("category", category)
	}

	var res PromoCodePage
	if err := c.get(ctx, "/promocodes?"+params.Encode(), &res); err != nil {
		return nil, fmt.Errorf("client.PromoCodes: %w", err)
	}
	return &res, nil
}

// PromoCode fetches a single promo code by id.
func (c *Client) PromoCode(ctx context.Context, id int64) (*domain.PromoCode, error) {
	var p domain.PromoCode
	if err := c.get(ctx, "/promocodes?id="+strconv.FormatInt(id, 10), &p); err != nil {
		return nil, fmt.Errorf("client.PromoCode: %w", err)
	}
	return &p, nil
}

// --- Transport ---

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
		if readErr != nil {
			return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
		}
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
