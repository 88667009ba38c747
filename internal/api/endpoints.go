package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/limestore/limectl/internal/model"
)

// ---- auth ----

// LoginResult is the API's answer to a successful login.
type LoginResult struct {
	Token string        `json:"token"`
	User  model.Profile `json:"user"`
}

// Login exchanges credentials for a bearer token and profile.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out LoginResult
	err := c.do(ctx, http.MethodPost, "/api/login", nil,
		map[string]string{"email": email, "password": password}, &out, nil)
	return out, err
}

// Register creates an account; the API emails a verification code.
func (c *Client) Register(ctx context.Context, name, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/register", nil,
		map[string]string{"name": name, "email": email, "password": password}, nil, nil)
}

// VerifyEmail confirms the account with the emailed OTP.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) error {
	return c.do(ctx, http.MethodPost, "/api/verify-email", nil,
		map[string]string{"email": email, "code": code}, nil, nil)
}

// ResendCode asks the API to email a fresh verification code.
func (c *Client) ResendCode(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/resend-code", nil,
		map[string]string{"email": email}, nil, nil)
}

// RequestReset starts the password-reset flow.
func (c *Client) RequestReset(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/api/request-reset", nil,
		map[string]string{"email": email}, nil, nil)
}

// ResetPassword completes the password-reset flow with the emailed OTP.
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/api/reset-password", nil,
		map[string]string{"email": email, "code": code, "password": newPassword}, nil, nil)
}

// ---- account ----

// Account fetches the authenticated profile.
func (c *Client) Account(ctx context.Context) (model.Profile, error) {
	var out model.Profile
	err := c.do(ctx, http.MethodGet, "/api/account", nil, nil, &out, nil)
	return out, err
}

// UpdateAccount saves profile edits and returns the updated profile.
func (c *Client) UpdateAccount(ctx context.Context, p model.Profile) (model.Profile, error) {
	var out model.Profile
	err := c.do(ctx, http.MethodPut, "/api/account", nil, p, &out, nil)
	return out, err
}

// UploadAvatar replaces the profile picture.
func (c *Client) UploadAvatar(ctx context.Context, filename string, r io.Reader) (model.Profile, error) {
	var out model.Profile
	err := c.doMultipart(ctx, http.MethodPost, "/api/account/avatar", nil,
		[]filePart{{field: "avatar", filename: filename, r: r}}, &out)
	return out, err
}

// ---- catalog ----

// ProductQuery narrows a product listing.
type ProductQuery struct {
	Search   string
	Category string
	Page     int
}

// Products lists catalog products matching the query.
func (c *Client) Products(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	vals := url.Values{}
	if q.Search != "" {
		vals.Set("search", q.Search)
	}
	if q.Category != "" {
		vals.Set("category", q.Category)
	}
	if q.Page > 0 {
		vals.Set("page", strconv.Itoa(q.Page))
	}
	var out []model.Product
	err := c.do(ctx, http.MethodGet, "/api/products", vals, nil, &out, nil)
	return out, err
}

// Product fetches one product by id.
func (c *Client) Product(ctx context.Context, id string) (model.Product, error) {
	var out model.Product
	err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, nil, &out, nil)
	return out, err
}

// Categories lists the browsing categories.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &out, nil)
	return out, err
}

// Reviews lists reviews for a product.
func (c *Client) Reviews(ctx context.Context, productID string) ([]model.Review, error) {
	var out []model.Review
	err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(productID)+"/reviews", nil, nil, &out, nil)
	return out, err
}

// ReviewImage is one image attached to a submitted review.
type ReviewImage struct {
	Filename string
	R        io.Reader
}

// AddReview submits a review; with images it goes up as multipart form data.
func (c *Client) AddReview(ctx context.Context, productID string, rating int, comment string, images []ReviewImage) (model.Review, error) {
	path := "/api/products/" + url.PathEscape(productID) + "/reviews"
	var out model.Review
	if len(images) == 0 {
		err := c.do(ctx, http.MethodPost, path, nil,
			map[string]any{"rating": rating, "comment": comment}, &out, nil)
		return out, err
	}
	files := make([]filePart, 0, len(images))
	for _, img := range images {
		files = append(files, filePart{field: "images", filename: img.Filename, r: img.R})
	}
	err := c.doMultipart(ctx, http.MethodPost, path,
		map[string]string{"rating": strconv.Itoa(rating), "comment": comment}, files, &out)
	return out, err
}

// FeaturedProducts lists the admin-curated landing page showcase.
func (c *Client) FeaturedProducts(ctx context.Context) ([]model.Product, error) {
	var out []model.Product
	err := c.do(ctx, http.MethodGet, "/api/featured-products", nil, nil, &out, nil)
	return out, err
}

// SetFeaturedProducts replaces the showcase with the given product ids (admin).
func (c *Client) SetFeaturedProducts(ctx context.Context, productIDs []string) error {
	return c.do(ctx, http.MethodPut, "/api/featured-products", nil,
		map[string][]string{"productIds": productIDs}, nil, nil)
}

// ---- wishlist ----

// Wishlist fetches the remote wishlist.
func (c *Client) Wishlist(ctx context.Context) ([]model.WishlistItem, error) {
	var out []model.WishlistItem
	err := c.do(ctx, http.MethodGet, "/api/wishlist", nil, nil, &out, nil)
	return out, err
}

// AddToWishlist saves a product on the remote wishlist.
func (c *Client) AddToWishlist(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodPost, "/api/wishlist", nil,
		map[string]string{"productId": productID}, nil, nil)
}

// RemoveFromWishlist deletes a product from the remote wishlist.
func (c *Client) RemoveFromWishlist(ctx context.Context, productID string) error {
	return c.do(ctx, http.MethodDelete, "/api/wishlist/"+url.PathEscape(productID), nil, nil, nil, nil)
}

// ---- orders & checkout ----

// CheckoutRequest is the submitted cart plus contact and shipping details.
type CheckoutRequest struct {
	Items   []model.CartLine `json:"items"`
	Name    string           `json:"name"`
	Email   string           `json:"email"`
	Phone   string           `json:"phone,omitempty"`
	Address model.Address    `json:"address"`
}

// Checkout places an order. idempotencyKey deduplicates retried submissions
// on the server side.
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest, idempotencyKey string) (model.CheckoutResult, error) {
	var out model.CheckoutResult
	hdr := http.Header{}
	if idempotencyKey != "" {
		hdr.Set("X-Idempotency-Key", idempotencyKey)
	}
	err := c.do(ctx, http.MethodPost, "/api/checkout", nil, req, &out, hdr)
	return out, err
}

// CreateSumUpCheckout creates the hosted-payment hand-off for an order.
func (c *Client) CreateSumUpCheckout(ctx context.Context, orderID string) (model.PaymentCheckout, error) {
	var out model.PaymentCheckout
	err := c.do(ctx, http.MethodPost, "/api/payments/sumup/create_checkout", nil,
		map[string]string{"orderId": orderID}, &out, nil)
	return out, err
}

// Orders lists the caller's order history.
func (c *Client) Orders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	err := c.do(ctx, http.MethodGet, "/api/orders", nil, nil, &out, nil)
	return out, err
}

// Order fetches one order by id.
func (c *Client) Order(ctx context.Context, id string) (model.Order, error) {
	var out model.Order
	err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, nil, &out, nil)
	return out, err
}

// AllOrders lists every order (admin).
func (c *Client) AllOrders(ctx context.Context) ([]model.Order, error) {
	var out []model.Order
	err := c.do(ctx, http.MethodGet, "/api/orders/all", nil, nil, &out, nil)
	return out, err
}

// ---- admin & content ----

// AdminUsers lists accounts for the back office.
func (c *Client) AdminUsers(ctx context.Context) ([]model.AdminUser, error) {
	var out []model.AdminUser
	err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, nil, &out, nil)
	return out, err
}

// SetUserRole changes an account's role (admin).
func (c *Client) SetUserRole(ctx context.Context, userID, role string) error {
	return c.do(ctx, http.MethodPut, "/api/admin/users/"+url.PathEscape(userID)+"/role", nil,
		map[string]string{"role": role}, nil, nil)
}

// AuditLogs lists the admin audit trail.
func (c *Client) AuditLogs(ctx context.Context) ([]model.AuditEntry, error) {
	var out []model.AuditEntry
	err := c.do(ctx, http.MethodGet, "/api/admin/logs", nil, nil, &out, nil)
	return out, err
}

// Terms fetches the public terms-of-service text.
func (c *Client) Terms(ctx context.Context) (string, error) {
	var out struct {
		Content string `json:"content"`
	}
	err := c.do(ctx, http.MethodGet, "/api/content/terms", nil, nil, &out, nil)
	return out.Content, err
}

// UpdateTerms replaces the terms-of-service text (admin).
func (c *Client) UpdateTerms(ctx context.Context, content string) error {
	return c.do(ctx, http.MethodPut, "/api/admin/content/terms", nil,
		map[string]string{"content": content}, nil, nil)
}
