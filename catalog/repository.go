package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("product not found")

type Repository interface {
	Init(ctx context.Context) error
	Seed(ctx context.Context, seed *Seed) error
	Count(ctx context.Context, q Query) (int64, error)
	List(ctx context.Context, q Query) ([]*Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Categories(ctx context.Context) ([]Category, error)
}

type sqliteRepo struct{ db *sql.DB }

func NewSQLiteRepo(db *sql.DB) Repository { return &sqliteRepo{db: db} }

const schema = `
CREATE TABLE IF NOT EXISTS categories(
  id       TEXT PRIMARY KEY,
  name     TEXT NOT NULL,
  position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS products(
  id             TEXT PRIMARY KEY,
  name           TEXT NOT NULL,
  price          INTEGER NOT NULL,
  original_price INTEGER NOT NULL DEFAULT 0,
  image          TEXT NOT NULL DEFAULT '',
  seller         TEXT NOT NULL DEFAULT '',
  category       TEXT NOT NULL DEFAULT '',
  rating         REAL NOT NULL DEFAULT 0,
  sold           INTEGER NOT NULL DEFAULT 0,
  location       TEXT NOT NULL DEFAULT '',
  stock          INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
`

func (r *sqliteRepo) Init(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Seed inserts the seed rows, leaving rows that already exist untouched.
func (r *sqliteRepo) Seed(ctx context.Context, seed *Seed) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i, c := range seed.Categories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories(id, name, position) VALUES (?, ?, ?)
			ON CONFLICT(id) DO NOTHING`, c.ID, c.Name, i); err != nil {
			return fmt.Errorf("seed category %s: %w", c.ID, err)
		}
	}
	for _, p := range seed.Products {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO products(id, name, price, original_price, image, seller, category, rating, sold, location, stock)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`,
			p.ID, p.Name, p.Price, p.OriginalPrice, p.Image, p.Seller, p.Category, p.Rating, p.Sold, p.Location, p.Stock); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (r *sqliteRepo) Count(ctx context.Context, q Query) (int64, error) {
	where, args := q.where()
	var c int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM products`+where, args...).Scan(&c)
	return c, err
}

const productColumns = `id, name, price, original_price, image, seller, category, rating, sold, location, stock`

func (r *sqliteRepo) List(ctx context.Context, q Query) ([]*Product, error) {
	q = q.Normalize()
	where, args := q.where()
	args = append(args, q.PageSize, q.offset())

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products`+where+` ORDER BY `+q.orderBy()+` LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *sqliteRepo) Get(ctx context.Context, id string) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id=?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Categories returns the "all" pseudo category first, then every seeded category
// in seed order, each with its product count.
func (r *sqliteRepo) Categories(ctx context.Context) ([]Category, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM products`).Scan(&total); err != nil {
		return nil, err
	}
	out := []Category{{ID: AllCategories, Name: "All Categories", Count: total}}

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, (SELECT COUNT(1) FROM products p WHERE p.category = c.id)
		FROM categories c ORDER BY c.position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*Product, error) {
	var p Product
	err := s.Scan(&p.ID, &p.Name, &p.Price, &p.OriginalPrice, &p.Image, &p.Seller,
		&p.Category, &p.Rating, &p.Sold, &p.Location, &p.Stock)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ---- filtros ----

// likeEscaper makes user text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (q Query) where() (string, []any) {
	var conds []string
	var args []any
	if text := strings.TrimSpace(q.Text); text != "" {
		conds = append(conds, `lower(name) LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(text))+"%")
	}
	if c := strings.TrimSpace(q.Category); c != "" && c != AllCategories {
		conds = append(conds, `category = ?`)
		args = append(args, c)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (q Query) orderBy() string {
	switch q.Sort {
	case SortPriceAsc:
		return "price ASC, rowid ASC"
	case SortPriceDesc:
		return "price DESC, rowid ASC"
	case SortRating:
		return "rating DESC, rowid ASC"
	case SortSold:
		return "sold DESC, rowid ASC"
	default:
		return "rowid ASC"
	}
}
