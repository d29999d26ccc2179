package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
)

// ============================================================================
// CSV LOADER — directory of entity files → validated Snapshot
// ============================================================================
// Expects customers.csv, orders.csv, order_items.csv and optionally
// products.csv, categories.csv. Columns are matched by header name; dates
// accept "2006-01-02" or RFC3339.
// ============================================================================

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// LoadDir reads a snapshot from CSV files in dir and validates it. A
// validation failure is fatal: the snapshot is not returned.
func LoadDir(dir string) (*dataset.Snapshot, error) {
	snap := &dataset.Snapshot{}

	if err := readEntityFile(filepath.Join(dir, "customers.csv"), true, func(row rowReader) error {
		signup, err := row.date("signup_date")
		if err != nil {
			return err
		}
		snap.Customers = append(snap.Customers, dataset.Customer{
			ID:         row.get("id"),
			SignupDate: signup,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readEntityFile(filepath.Join(dir, "orders.csv"), true, func(row rowReader) error {
		date, err := row.date("order_date")
		if err != nil {
			return err
		}
		total, err := row.float("total_amount")
		if err != nil {
			return err
		}
		snap.Orders = append(snap.Orders, dataset.Order{
			ID:          row.get("id"),
			CustomerID:  row.get("customer_id"),
			OrderDate:   date,
			TotalAmount: total,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readEntityFile(filepath.Join(dir, "order_items.csv"), true, func(row rowReader) error {
		qty, err := row.int("quantity")
		if err != nil {
			return err
		}
		price, err := row.float("unit_price")
		if err != nil {
			return err
		}
		snap.Items = append(snap.Items, dataset.OrderItem{
			ID:        row.get("id"),
			OrderID:   row.get("order_id"),
			ProductID: row.get("product_id"),
			Quantity:  qty,
			UnitPrice: price,
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readEntityFile(filepath.Join(dir, "products.csv"), false, func(row rowReader) error {
		snap.Products = append(snap.Products, dataset.Product{
			ID:         row.get("id"),
			Name:       row.get("name"),
			CategoryID: row.get("category_id"),
		})
		return nil
	}); err != nil {
		return nil, err
	}

	if err := readEntityFile(filepath.Join(dir, "categories.csv"), false, func(row rowReader) error {
		snap.Categories = append(snap.Categories, dataset.Category{
			ID:   row.get("id"),
			Name: row.get("name"),
		})
		return nil
	}); err != nil {
		return nil, err
	}

	snap.DeriveLastPurchase()
	if err := dataset.Validate(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

type rowReader struct {
	file   string
	line   int
	index  map[string]int
	fields []string
}

func (r rowReader) get(col string) string {
	i, ok := r.index[col]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

func (r rowReader) float(col string) (float64, error) {
	v, err := strconv.ParseFloat(r.get(col), 64)
	if err != nil {
		return 0, fmt.Errorf("%s line %d: column %s: %w", r.file, r.line, col, err)
	}
	return v, nil
}

func (r rowReader) int(col string) (int, error) {
	v, err := strconv.Atoi(r.get(col))
	if err != nil {
		return 0, fmt.Errorf("%s line %d: column %s: %w", r.file, r.line, col, err)
	}
	return v, nil
}

func (r rowReader) date(col string) (time.Time, error) {
	raw := r.get(col)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s line %d: column %s: unparsable date %q", r.file, r.line, col, raw)
}

func readEntityFile(path string, required bool, fn func(rowReader) error) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	headers, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read %s headers: %w", path, err)
	}
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	name := filepath.Base(path)
	line := 1
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read %s line %d: %w", name, line+1, err)
		}
		line++
		if err := fn(rowReader{file: name, line: line, index: index, fields: fields}); err != nil {
			return err
		}
	}
}
