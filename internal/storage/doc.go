// Package storage reads transactions from and writes result tables to a SQL
// database. PostgreSQL (lib/pq) and MySQL (go-sql-driver/mysql) are
// supported.
//
// The source table must expose the canonical transaction columns:
//
//	invoice_id, stock_code, description, quantity,
//	invoice_timestamp, unit_price, customer_id, country
//
// Result tables are written as TEXT columns under a configurable prefix,
// for example analytics_monthly_sales.
package storage
