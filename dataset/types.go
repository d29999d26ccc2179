package dataset

import "time"

// ============================================================================
// DATASET — typed transactional entities
// ============================================================================
// The engine computes over an immutable snapshot of these record types.
// Loading and parsing live in the loader package; this package only defines
// the shapes and the referential rules every snapshot must satisfy.
// ============================================================================

// Customer is one registered customer.
type Customer struct {
	ID         string
	SignupDate time.Time
	// LastPurchase is derived from orders, never authoritative. Nil when
	// the customer has not ordered.
	LastPurchase *time.Time
}

// Order is one placed order owned by a customer.
type Order struct {
	ID          string
	CustomerID  string
	OrderDate   time.Time
	TotalAmount float64
}

// OrderItem is one line item of an order.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice float64
}

// Product is a purchasable product.
type Product struct {
	ID         string
	Name       string
	CategoryID string
}

// Category groups products.
type Category struct {
	ID   string
	Name string
}

// Snapshot is the full in-memory dataset handed to the analytics engine.
// Products and Categories are optional; the modules that need them degrade
// to id-only labels when they are missing.
type Snapshot struct {
	Customers  []Customer
	Orders     []Order
	Items      []OrderItem
	Products   []Product
	Categories []Category
}

// OrdersByCustomer indexes orders by owning customer id, preserving input
// order within each customer.
func (s *Snapshot) OrdersByCustomer() map[string][]Order {
	out := make(map[string][]Order, len(s.Customers))
	for _, o := range s.Orders {
		out[o.CustomerID] = append(out[o.CustomerID], o)
	}
	return out
}

// ItemsByOrder indexes line items by order id.
func (s *Snapshot) ItemsByOrder() map[string][]OrderItem {
	out := make(map[string][]OrderItem, len(s.Orders))
	for _, it := range s.Items {
		out[it.OrderID] = append(out[it.OrderID], it)
	}
	return out
}

// ProductByID indexes products.
func (s *Snapshot) ProductByID() map[string]Product {
	out := make(map[string]Product, len(s.Products))
	for _, p := range s.Products {
		out[p.ID] = p
	}
	return out
}

// CategoryByID indexes categories.
func (s *Snapshot) CategoryByID() map[string]Category {
	out := make(map[string]Category, len(s.Categories))
	for _, c := range s.Categories {
		out[c.ID] = c
	}
	return out
}

// DeriveLastPurchase fills every customer's LastPurchase from the order
// set. Called by loaders after the snapshot is assembled.
func (s *Snapshot) DeriveLastPurchase() {
	latest := make(map[string]time.Time, len(s.Customers))
	for _, o := range s.Orders {
		if cur, ok := latest[o.CustomerID]; !ok || o.OrderDate.After(cur) {
			latest[o.CustomerID] = o.OrderDate
		}
	}
	for i := range s.Customers {
		if t, ok := latest[s.Customers[i].ID]; ok {
			tt := t
			s.Customers[i].LastPurchase = &tt
		}
	}
}
