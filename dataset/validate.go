package dataset

import (
	"fmt"
	"strings"
)

// ============================================================================
// VALIDATION — referential and value invariants
// ============================================================================
// Violations are reported, never repaired, and they are fatal: computation
// does not begin on a snapshot that fails validation.
// ============================================================================

// Violation describes one broken invariant.
type Violation struct {
	Entity  string `json:"entity"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s: %s", v.Entity, v.ID, v.Message)
}

// ValidationError aggregates every violation found in a snapshot.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return "schema violation: " + e.Violations[0].String()
	}
	heads := make([]string, 0, 3)
	for i, v := range e.Violations {
		if i == 3 {
			break
		}
		heads = append(heads, v.String())
	}
	return fmt.Sprintf("%d schema violations: %s", len(e.Violations), strings.Join(heads, "; "))
}

// Validate checks every snapshot invariant and returns a *ValidationError
// listing all violations, or nil. Product references are only checked when
// the optional product recordset is present, and category references when
// categories are present.
func Validate(s *Snapshot) error {
	var violations []Violation
	add := func(entity, id, format string, args ...interface{}) {
		violations = append(violations, Violation{Entity: entity, ID: id, Message: fmt.Sprintf(format, args...)})
	}

	customers := make(map[string]bool, len(s.Customers))
	for _, c := range s.Customers {
		if c.ID == "" {
			add("customer", "", "empty id")
			continue
		}
		if customers[c.ID] {
			add("customer", c.ID, "duplicate id")
		}
		customers[c.ID] = true
	}

	orders := make(map[string]bool, len(s.Orders))
	for _, o := range s.Orders {
		if o.ID == "" {
			add("order", "", "empty id")
			continue
		}
		if orders[o.ID] {
			add("order", o.ID, "duplicate id")
		}
		orders[o.ID] = true
		if !customers[o.CustomerID] {
			add("order", o.ID, "references nonexistent customer %q", o.CustomerID)
		}
		if o.TotalAmount < 0 {
			add("order", o.ID, "negative total_amount %.2f", o.TotalAmount)
		}
	}

	products := make(map[string]bool, len(s.Products))
	categories := make(map[string]bool, len(s.Categories))
	for _, c := range s.Categories {
		categories[c.ID] = true
	}
	for _, p := range s.Products {
		if products[p.ID] {
			add("product", p.ID, "duplicate id")
		}
		products[p.ID] = true
		if len(s.Categories) > 0 && !categories[p.CategoryID] {
			add("product", p.ID, "references nonexistent category %q", p.CategoryID)
		}
	}

	items := make(map[string]bool, len(s.Items))
	for _, it := range s.Items {
		if items[it.ID] {
			add("order_item", it.ID, "duplicate id")
		}
		items[it.ID] = true
		if !orders[it.OrderID] {
			add("order_item", it.ID, "references nonexistent order %q", it.OrderID)
		}
		if len(s.Products) > 0 && !products[it.ProductID] {
			add("order_item", it.ID, "references nonexistent product %q", it.ProductID)
		}
		if it.Quantity <= 0 {
			add("order_item", it.ID, "non-positive quantity %d", it.Quantity)
		}
		if it.UnitPrice < 0 {
			add("order_item", it.ID, "negative unit_price %.2f", it.UnitPrice)
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
