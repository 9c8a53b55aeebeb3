package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	SKU            string          `json:"sku"`
	Category       string          `json:"category"`
	PricePurchase  decimal.Decimal `json:"price_purchase"`
	PriceSale      decimal.Decimal `json:"price_sale"`
	Unit           string          `json:"unit"`
	Stock          int             `json:"stock"`
	MinStock       int             `json:"min_stock"`
	Location       string          `json:"location,omitempty"`
	SupplierID     int             `json:"supplier_id,omitempty"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	Archived       bool            `json:"archived"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      *time.Time      `json:"updated_at,omitempty"`
}

type Supplier struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	ContactName  string     `json:"contact_name,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	PaymentTerms string     `json:"payment_terms,omitempty"`
	Address      string     `json:"address,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// SaleItem captures the unit price at the moment of the sale; later price
// changes on the product never affect persisted sales.
type SaleItem struct {
	ID        int             `json:"id"`
	SaleID    int             `json:"sale_id"`
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// Sale is immutable once persisted: it is only ever appended to history.
type Sale struct {
	ID              int             `json:"id"`
	Total           decimal.Decimal `json:"total"`
	DiscountPercent decimal.Decimal `json:"discount"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	PaymentMethod   string          `json:"payment_method"`
	UserID          int             `json:"user_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []SaleItem      `json:"items"`
}

type SaleItemInput struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type SaleInput struct {
	DiscountPercent decimal.Decimal `json:"discount"`
	PaymentMethod   string          `json:"payment_method"`
	Items           []SaleItemInput `json:"items"`
}

const (
	MovementEntry    = "ENTRY"
	MovementExit     = "EXIT"
	MovementTransfer = "TRANSFER"
	MovementReturn   = "RETURN"
)

type StockMovement struct {
	ID            int       `json:"id"`
	ProductID     int       `json:"product_id"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	Reason        string    `json:"reason,omitempty"`
	UserID        int       `json:"user_id,omitempty"`
	ReferenceType string    `json:"reference_type,omitempty"`
	ReferenceID   int       `json:"reference_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

const (
	PurchaseOrderPending  = "pending"
	PurchaseOrderReceived = "received"
)

type PurchaseOrderItem struct {
	ID              int             `json:"id"`
	PurchaseOrderID int             `json:"purchase_order_id"`
	ProductID       int             `json:"product_id"`
	Quantity        int             `json:"quantity"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
}

type PurchaseOrder struct {
	ID         int                 `json:"id"`
	SupplierID int                 `json:"supplier_id"`
	Status     string              `json:"status"`
	Total      decimal.Decimal     `json:"total"`
	Notes      string              `json:"notes,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	ReceivedAt *time.Time          `json:"received_at,omitempty"`
	Items      []PurchaseOrderItem `json:"items"`
}

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

type AuditEntry struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id,omitempty"`
	Entity    string    `json:"entity"`
	EntityID  int       `json:"entity_id"`
	Action    string    `json:"action"`
	Changes   string    `json:"changes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
