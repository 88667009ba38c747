// Package model defines domain entities shared by the services and the API client.
package model

import "time"

// CartLine is one distinct product entry in the shopping cart.
type CartLine struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl,omitempty"`
	Quantity int     `json:"quantity"`
}

// Total returns price × quantity for this line.
func (l CartLine) Total() float64 { return l.Price * float64(l.Quantity) }

// Product is a catalog entry as served by the API.
type Product struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Images      []string `json:"images,omitempty"`
	Category    string   `json:"category,omitempty"`
	InStock     bool     `json:"inStock"`
	Rating      float64  `json:"rating,omitempty"`
	ReviewCount int      `json:"reviewCount,omitempty"`
	Featured    bool     `json:"featured,omitempty"`
}

// Category groups products for browsing.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Address is a shipping/billing address attached to a profile or order.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Profile is the account shape returned by /api/login and /api/account.
type Profile struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Role      string   `json:"role,omitempty"`
	Verified  bool     `json:"verified"`
	AvatarURL string   `json:"avatarUrl,omitempty"`
	Address   *Address `json:"address,omitempty"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p Profile) IsAdmin() bool { return p.Role == "admin" }

// Session is the locally persisted authentication state.
type Session struct {
	Token     string    `json:"token"`
	Profile   Profile   `json:"profile"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Review is a product review as served by the API.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"` // 1-5
	Comment   string    `json:"comment"`
	Images    []string  `json:"images,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// WishlistItem is one saved product on the remote wishlist.
type WishlistItem struct {
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	AddedAt   time.Time `json:"addedAt"`
}

// OrderItem is one purchased line on an order.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Order is a placed order as served by the API.
type Order struct {
	ID        string      `json:"id"`
	UserEmail string      `json:"userEmail,omitempty"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	Address   *Address    `json:"address,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// CheckoutDraft is the locally persisted contact/address draft edited
// between invocations and submitted at checkout.
type CheckoutDraft struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone,omitempty"`
	Address Address `json:"address"`
}

// CheckoutResult is the API's answer to a submitted checkout.
type CheckoutResult struct {
	OrderID string  `json:"orderId"`
	Total   float64 `json:"total"`
	Status  string  `json:"status"`
}

// PaymentCheckout is the hosted-payment hand-off created for an order.
type PaymentCheckout struct {
	CheckoutID  string `json:"checkoutId"`
	CheckoutURL string `json:"checkoutUrl"`
}

// AdminUser is an account row in the admin back office.
type AdminUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}

// AuditEntry is one admin-visible audit log record.
type AuditEntry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Target    string    `json:"target,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
