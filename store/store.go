package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	models "shop-simulator/model"
)

//go:embed migrations.sql
var migrationSQL string

// PostgresStore keeps the same two records in Postgres. Row order is
// carried by the position column so listings stay in catalog order.
type PostgresStore struct {
	DB *sql.DB

	log *zap.Logger
}

func NewPostgresStore(ctx context.Context, dsn string, log *zap.Logger) (*PostgresStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return &PostgresStore{DB: db, log: log}, nil
}

func (s *PostgresStore) Close() error { return s.DB.Close() }

func (s *PostgresStore) logger() *zap.Logger {
	if s.log == nil {
		return zap.NewNop()
	}
	return s.log
}

// Migrate creates the tables when they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, migrationSQL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	s.logger().Info("database migrations executed")
	return nil
}

func (s *PostgresStore) LoadCatalog(ctx context.Context) (*models.Catalog, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT name, price, quantity, discount FROM products ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	c := &models.Catalog{}
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.Name, &p.Price, &p.Quantity, &p.DiscountPercent); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		c.Put(p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if c.Len() == 0 {
		s.logger().Info("products table empty, using defaults")
		return SeedCatalog(), nil
	}
	return c, validateCatalog(c)
}

func (s *PostgresStore) LoadUsers(ctx context.Context) (*models.Users, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT username, balance, cart, transactions FROM accounts ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	users := models.NewUsers()
	for rows.Next() {
		var (
			name          string
			balance       decimal.Decimal
			cart, history []byte
		)
		if err := rows.Scan(&name, &balance, &cart, &history); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		acct := models.NewUserAccount(balance)
		if err := json.Unmarshal(cart, &acct.Cart); err != nil {
			return nil, fmt.Errorf("account %q cart: %w", name, err)
		}
		if err := json.Unmarshal(history, &acct.Transactions); err != nil {
			return nil, fmt.Errorf("account %q transactions: %w", name, err)
		}
		if acct.Transactions == nil {
			acct.Transactions = []models.Transaction{}
		}
		users.Put(name, acct)
	}
	return users, rows.Err()
}

// Save replaces both tables inside one transaction.
func (s *PostgresStore) Save(ctx context.Context, catalog *models.Catalog, users *models.Users) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	// ensure rollback on early return
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	for i, p := range catalog.Products() {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO products (name, position, price, quantity, discount) VALUES ($1,$2,$3,$4,$5)`,
			p.Name, i, p.Price, p.Quantity, p.DiscountPercent,
		); err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}
	for i, name := range users.Names() {
		acct, _ := users.Get(name)
		cart, err := json.Marshal(&acct.Cart)
		if err != nil {
			return err
		}
		history, err := json.Marshal(acct.Transactions)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (username, position, balance, cart, transactions) VALUES ($1,$2,$3,$4,$5)`,
			name, i, acct.Balance.String(), string(cart), string(history),
		); err != nil {
			return fmt.Errorf("insert account %q: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

var _ Store = (*PostgresStore)(nil)
