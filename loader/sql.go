package loader

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Pedro24681/sql-ecommerce-case-study/dataset"
)

// ============================================================================
// SQL LOADER — sqlite or postgres snapshot source
// ============================================================================

// Open connects to the snapshot database and verifies the connection.
// Supported drivers: "sqlite3", "postgres".
func Open(driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s database: %w", driver, err)
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	}
	return db, nil
}

// Load reads the full snapshot and validates it before returning.
func Load(ctx context.Context, db *sql.DB) (*dataset.Snapshot, error) {
	snap := &dataset.Snapshot{}

	err := queryRows(ctx, db, "SELECT id, customer_id, order_date, total_amount FROM orders ORDER BY id",
		func(rows *sql.Rows) error {
			var o dataset.Order
			if err := rows.Scan(&o.ID, &o.CustomerID, &o.OrderDate, &o.TotalAmount); err != nil {
				return err
			}
			snap.Orders = append(snap.Orders, o)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	err = queryRows(ctx, db, "SELECT id, signup_date FROM customers ORDER BY id",
		func(rows *sql.Rows) error {
			var c dataset.Customer
			if err := rows.Scan(&c.ID, &c.SignupDate); err != nil {
				return err
			}
			snap.Customers = append(snap.Customers, c)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	err = queryRows(ctx, db, "SELECT id, order_id, product_id, quantity, unit_price FROM order_items ORDER BY id",
		func(rows *sql.Rows) error {
			var it dataset.OrderItem
			if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Quantity, &it.UnitPrice); err != nil {
				return err
			}
			snap.Items = append(snap.Items, it)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}

	err = queryRows(ctx, db, "SELECT id, name, category_id FROM products ORDER BY id",
		func(rows *sql.Rows) error {
			var p dataset.Product
			if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID); err != nil {
				return err
			}
			snap.Products = append(snap.Products, p)
			return nil
		})
	if err != nil && !isMissingTable(err) {
		return nil, fmt.Errorf("load products: %w", err)
	}

	err = queryRows(ctx, db, "SELECT id, name FROM categories ORDER BY id",
		func(rows *sql.Rows) error {
			var c dataset.Category
			if err := rows.Scan(&c.ID, &c.Name); err != nil {
				return err
			}
			snap.Categories = append(snap.Categories, c)
			return nil
		})
	if err != nil && !isMissingTable(err) {
		return nil, fmt.Errorf("load categories: %w", err)
	}

	snap.DeriveLastPurchase()
	if err := dataset.Validate(snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func queryRows(ctx context.Context, db *sql.DB, query string, scan func(*sql.Rows) error) error {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// isMissingTable detects the optional products/categories tables being
// absent, for both supported drivers.
func isMissingTable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "no such table") || strings.Contains(msg, "does not exist")
}
