package repository

import (
	"context"
	"fmt"

	"github.com/momconnect/backend/internal/models"
)

// CreateProduct сохраняет объявление и возвращает его вместе с именем продавца.
func (s *Storage) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "repository.CreateProduct"

	query := `INSERT INTO products (seller_id, name, description, price, image, category)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at;`
	if err := s.DB.QueryRowContext(ctx, query,
		p.SellerID, p.Name, p.Description, p.Price, p.Image, p.Category).
		Scan(&p.ID, &p.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.DB.QueryRowContext(ctx,
		`SELECT name FROM users WHERE id = $1`, p.SellerID).Scan(&p.SellerName); err != nil {
		return nil, mapRowErr(op, err)
	}
	return &p, nil
}

// ListProducts возвращает объявления, новые первыми.
func (s *Storage) ListProducts(ctx context.Context) ([]*models.Product, error) {
	const op = "repository.ListProducts"

	query := `SELECT p.id, p.seller_id, u.name, p.name, p.description, p.price,
			      p.image, p.category, p.is_sold, p.created_at
			  FROM products p JOIN users u ON u.id = p.seller_id
			  ORDER BY p.created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.SellerID, &p.SellerName, &p.Name,
			&p.Description, &p.Price, &p.Image, &p.Category, &p.IsSold,
			&p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
