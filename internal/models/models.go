package models

// Role values mirrored from the backend's user accounts.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// Actor is the identity acting on a request, derived from client storage.
// A zero ID means a guest; Actor carries no write authority over identity.
type Actor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// IsGuest reports whether the actor has no authenticated identity.
func (a Actor) IsGuest() bool {
	return a.ID == ""
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CategoryRef is the minimal category reference sent with cart items.
type CategoryRef struct {
	ID int64 `json:"id"`
}

// CartLineItem is one line of a cart. Identity for merge purposes is
// (ProductName, Size) when the product has sizes, else ProductName alone.
type CartLineItem struct {
	ID           int64        `json:"id"`
	ProductName  string       `json:"productName"`
	Category     *CategoryRef `json:"category"`
	Quantity     int          `json:"quantity"`
	UnitPrice    float64      `json:"unitPrice"`
	Amount       float64      `json:"amount"`
	Size         string       `json:"size"`
	ProductImage string       `json:"productImage,omitempty"`
	HasSizes     bool         `json:"-"`
}

// MatchesIdentity reports whether other collapses into the same cart line.
// Two items with the same product but different sizes are distinct lines.
func (c CartLineItem) MatchesIdentity(other CartLineItem) bool {
	if c.ProductName != other.ProductName {
		return false
	}
	if !c.HasSizes && !other.HasSizes {
		return true
	}
	return c.Size == other.Size
}

// WishlistEntry is a remote-owned favorite; the client only caches it.
type WishlistEntry struct {
	ID           int64   `json:"id"`
	ProductID    int64   `json:"productId"`
	ProductName  string  `json:"productName"`
	ProductPrice float64 `json:"productPrice"`
	ProductImage string  `json:"productImage,omitempty"`
	AddedDate    string  `json:"addedDate"`
}

// Wishlist is the backend's wishlist listing payload.
type Wishlist struct {
	Items      []WishlistEntry `json:"wishlistItems"`
	TotalItems int             `json:"totalItems"`
}

// Order is an opaque backend payload; the client reads it and occasionally
// requests status transitions the backend validates.
type Order struct {
	ID           int64          `json:"id"`
	CustomerName string         `json:"customerName,omitempty"`
	Status       string         `json:"status"`
	Method       string         `json:"method,omitempty"`
	TotalAmount  float64        `json:"totalAmount"`
	CreatedAt    string         `json:"createdAt,omitempty"`
	Items        []CartLineItem `json:"items,omitempty"`
}

// Notification is an opaque backend payload.
type Notification struct {
	ID        int64  `json:"id"`
	Title     string `json:"title,omitempty"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Product is a catalog product as served by the backend.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
	Sizes       string  `json:"sizes,omitempty"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// Customer is a backend user account row shown on the admin overview.
type Customer struct {
	ID        int64  `json:"id"`
	Name      string `json:"name,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// CartResponse is the gateway's cart view payload. Error carries the
// one-line banner message when the view was served from fallback data.
type CartResponse struct {
	Items  []CartLineItem `json:"items"`
	Total  float64        `json:"total"`
	Source string         `json:"source"` // "server" or "local"
	Error  string         `json:"error,omitempty"`
}

// AddToCartRequest is a request to add an item to the actor's cart.
type AddToCartRequest struct {
	ProductName  string       `json:"productName"`
	ProductID    int64        `json:"productId"`
	Category     *CategoryRef `json:"category"`
	Quantity     int          `json:"quantity"`
	UnitPrice    float64      `json:"unitPrice"`
	Size         string       `json:"size"`
	HasSizes     bool         `json:"hasSizes"`
	ProductImage string       `json:"productImage,omitempty"`
	IsFavorite   bool         `json:"isFavorite,omitempty"`
}

// UpdateOrderStatusRequest is the status transition body for PUT .../status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}
