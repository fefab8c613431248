// Package client is the Go SDK for the NOMI API. It drives the
// client-side authentication lifecycle through an authstate.Store: the
// boot-time probe, login in either credential scheme, and the one-time
// invalidation when a protected call answers 401.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/nomi-id/nomi-api/pkg/authstate"
)

var (
	// ErrNotAuthenticated is returned by protected calls when the store
	// resolved to unauthenticated.
	ErrNotAuthenticated = errors.New("client: not authenticated")
	// ErrSessionEnded is returned when a protected call observed a 401 and
	// the local auth state was invalidated.
	ErrSessionEnded = errors.New("client: session ended")
)

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// Account mirrors the server's account payload.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	StoreName    string    `json:"store_name,omitempty"`
	Verification string    `json:"verification,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Product mirrors the server's product payload.
type Product struct {
	ID            string    `json:"id"`
	MerchantID    string    `json:"merchant_id"`
	Name          string    `json:"name"`
	Category      string    `json:"category"`
	Description   string    `json:"description,omitempty"`
	OriginalPrice int64     `json:"original_price"`
	DiscountPrice int64     `json:"discount_price"`
	Stock         int       `json:"stock"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Order mirrors the server's order payload.
type Order struct {
	ID         string    `json:"id"`
	ConsumerID string    `json:"consumer_id"`
	MerchantID string    `json:"merchant_id"`
	ProductID  string    `json:"product_id"`
	Quantity   int       `json:"quantity"`
	UnitPrice  int64     `json:"unit_price"`
	Total      int64     `json:"total"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// Options configures a Client.
type Options struct {
	// HTTPClient overrides the transport. A cookie jar is installed if the
	// provided client has none, since session-scheme auth depends on it.
	HTTPClient *http.Client
	// TokenStore persists the bearer token across restarts.
	TokenStore authstate.TokenStore
	// OnSessionEnded is invoked exactly once when an authenticated state is
	// invalidated by a 401.
	OnSessionEnded func()
	// OnLoginRedirect is invoked by the same invalidation, after the
	// notice, to route the user back to the login flow.
	OnLoginRedirect func()
}

// Client is a NOMI API client bound to one authstate.Store.
type Client struct {
	base            string
	http            *http.Client
	state           *authstate.Store
	onLoginRedirect func()
}

// New builds a client for the given base URL.
func New(baseURL string, opts Options) (*Client, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		httpClient.Jar = jar
	}

	stateOpts := []authstate.Option{}
	if opts.TokenStore != nil {
		stateOpts = append(stateOpts, authstate.WithTokenStore(opts.TokenStore))
	}
	if opts.OnSessionEnded != nil {
		stateOpts = append(stateOpts, authstate.WithSessionEndedHook(opts.OnSessionEnded))
	}

	return &Client{
		base:            strings.TrimRight(baseURL, "/"),
		http:            httpClient,
		state:           authstate.New(stateOpts...),
		onLoginRedirect: opts.OnLoginRedirect,
	}, nil
}

// State exposes the auth store, typically so a UI can Wait on it.
func (c *Client) State() *authstate.Store { return c.state }

type principalPayload struct {
	ID           string `json:"id"`
	Role         string `json:"role"`
	Scheme       string `json:"scheme"`
	Verification string `json:"verification,omitempty"`
}

type meResponse struct {
	Principal *principalPayload `json:"principal"`
	Account   *Account          `json:"account"`
}

// Probe resolves the persisted token and any ambient session cookie
// against the server. It always moves the store out of resolving: to
// authenticated on a 200, to unauthenticated on anything else. Call it
// once on boot before issuing protected calls.
func (c *Client) Probe(ctx context.Context) error {
	token := c.state.PersistedToken()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/auth/me", nil)
	if err != nil {
		c.state.SetUnauthenticated()
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.state.SetUnauthenticated()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.state.SetUnauthenticated()
		return nil
	}

	var me meResponse
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil || me.Principal == nil {
		c.state.SetUnauthenticated()
		return err
	}

	scheme := authstate.Scheme(me.Principal.Scheme)
	if scheme != authstate.SchemeToken {
		token = ""
	}
	c.state.SetAuthenticated(authstate.Principal{
		ID:           me.Principal.ID,
		Role:         me.Principal.Role,
		Scheme:       me.Principal.Scheme,
		Verification: me.Principal.Verification,
	}, scheme, token)
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Mode     string `json:"mode,omitempty"`
}

type authResponse struct {
	Token   string   `json:"token,omitempty"`
	Account *Account `json:"account,omitempty"`
}

// Login authenticates under the given scheme and records the outcome in
// the auth store. Session-scheme logins rely on the cookie jar; no token
// is retained locally for them.
func (c *Client) Login(ctx context.Context, email, password string, scheme authstate.Scheme) (*Account, error) {
	c.state.BeginLogin()

	var out authResponse
	err := c.post(ctx, "/auth/login", loginRequest{
		Email:    email,
		Password: password,
		Mode:     string(scheme),
	}, &out)
	if err != nil {
		c.state.SetUnauthenticated()
		return nil, err
	}
	if out.Account == nil {
		c.state.SetUnauthenticated()
		return nil, errors.New("client: login response missing account")
	}

	c.state.SetAuthenticated(authstate.Principal{
		ID:           out.Account.ID,
		Role:         out.Account.Role,
		Scheme:       string(scheme),
		Verification: out.Account.Verification,
	}, scheme, out.Token)
	return out.Account, nil
}

// RegisterInput are the fields for account creation.
type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	StoreName string `json:"store_name,omitempty"`
}

// Register creates an account. It does not authenticate.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	var out authResponse
	if err := c.post(ctx, "/auth/register", in, &out); err != nil {
		return nil, err
	}
	return out.Account, nil
}

// Logout terminates the server-side session (best effort for token
// callers) and clears all local auth state.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.state.Logout()
	if errors.Is(err, ErrSessionEnded) || errors.Is(err, ErrNotAuthenticated) {
		return nil
	}
	return err
}

// Me re-fetches the caller's principal and account.
func (c *Client) Me(ctx context.Context) (*Account, error) {
	var out meResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return out.Account, nil
}

// Products browses the public storefront. No authentication required.
func (c *Client) Products(ctx context.Context, category string) ([]Product, error) {
	path := "/products"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, decodeAPIError(resp)
	}
	var out []Product
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

// PlaceOrderInput are the fields for placing an order.
type PlaceOrderInput struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PlaceOrder reserves stock and creates an order for the consumer.
func (c *Client) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodPost, "/orders", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Orders lists the consumer's order history.
func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var out []Order
	if err := c.do(ctx, http.MethodGet, "/orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelOrder cancels a pending or paid order and restocks it.
func (c *Client) CancelOrder(ctx context.Context, orderID string) (*Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodPost, "/orders/"+url.PathEscape(orderID)+"/cancel", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MerchantProducts lists the merchant's own listings.
func (c *Client) MerchantProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/merchant/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MerchantStatus reports the merchant's verification state; reachable by
// unverified merchants.
func (c *Client) MerchantStatus(ctx context.Context) (map[string]string, error) {
	var out map[string]string
	if err := c.do(ctx, http.MethodGet, "/merchant/status", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// post issues an unauthenticated POST, used by the login/register flows.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// do issues a protected call. It waits for auth resolution, snapshots the
// state, attaches the bearer token for the token scheme, and on a 401
// invalidates the snapshot's epoch so the session-ended notice and the
// login redirect fire at most once no matter how many calls race.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.state.Wait(ctx); err != nil {
		return err
	}

	status, _, scheme, token, epoch := c.state.Snapshot()
	if status != authstate.StatusAuthenticated {
		return ErrNotAuthenticated
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if scheme == authstate.SchemeToken && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.state.Invalidate(epoch) && c.onLoginRedirect != nil {
			c.onLoginRedirect()
		}
		return ErrSessionEnded
	}
	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	var envelope struct {
		Error  string `json:"error"`
		Reason string `json:"reason"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	return &APIError{
		StatusCode: resp.StatusCode,
		Reason:     envelope.Reason,
		Message:    envelope.Error,
	}
}
