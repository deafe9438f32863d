package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mrops-br/products-catalog/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	insertProduct = `INSERT INTO products (name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4) RETURNING id`
	selectProduct = `SELECT id, name, description, created_at, updated_at
		FROM products WHERE id = $1`
	selectProducts = `SELECT id, name, description, created_at, updated_at
		FROM products ORDER BY id`
	updateProduct = `UPDATE products SET name = $1, description = $2, updated_at = $3
		WHERE id = $4`
	deleteProduct = `DELETE FROM products WHERE id = $1`
)

// ProductRepository is a database/sql implementation of domain.ProductRepository
type ProductRepository struct {
	db     *sql.DB
	tracer trace.Tracer
	logger *slog.Logger
}

// NewProductRepository wraps an open database handle
func NewProductRepository(db *sql.DB, tracer trace.Tracer, logger *slog.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		tracer: tracer,
		logger: logger,
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Create")
	defer span.End()

	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
		product.UpdatedAt = product.CreatedAt
	}

	err := r.db.QueryRowContext(ctx, insertProduct,
		product.Name,
		product.Description,
		product.CreatedAt,
		product.UpdatedAt,
	).Scan(&product.ID)
	if err != nil {
		return r.fail(span, fmt.Errorf("failed to insert product: %w", err))
	}

	span.SetAttributes(attribute.Int64("product.id", product.ID))
	r.logger.InfoContext(ctx, "Product created in repository",
		slog.Int64("product_id", product.ID),
	)

	span.SetStatus(codes.Ok, "Product created successfully")
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindByID")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	product, err := scanProduct(r.db.QueryRowContext(ctx, selectProduct, id))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.WarnContext(ctx, "Product not found", slog.Int64("product_id", id))
		return nil, r.fail(span, domain.ErrProductNotFound)
	}
	if err != nil {
		return nil, r.fail(span, fmt.Errorf("failed to find product: %w", err))
	}

	span.SetStatus(codes.Ok, "Product found")
	return product, nil
}

func (r *ProductRepository) FindAll(ctx context.Context) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.FindAll")
	defer span.End()

	rows, err := r.db.QueryContext(ctx, selectProducts)
	if err != nil {
		return nil, r.fail(span, fmt.Errorf("failed to list products: %w", err))
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, r.fail(span, fmt.Errorf("failed to scan product: %w", err))
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(span, fmt.Errorf("failed to iterate products: %w", err))
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *domain.Product) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Update")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", product.ID))

	res, err := r.db.ExecContext(ctx, updateProduct,
		product.Name,
		product.Description,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return r.fail(span, fmt.Errorf("failed to update product: %w", err))
	}
	if err := expectOneRow(res); err != nil {
		return r.fail(span, err)
	}

	r.logger.InfoContext(ctx, "Product updated in repository",
		slog.Int64("product_id", product.ID),
	)
	span.SetStatus(codes.Ok, "Product updated successfully")
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.Delete")
	defer span.End()

	span.SetAttributes(attribute.Int64("product.id", id))

	res, err := r.db.ExecContext(ctx, deleteProduct, id)
	if err != nil {
		return r.fail(span, fmt.Errorf("failed to delete product: %w", err))
	}
	if err := expectOneRow(res); err != nil {
		return r.fail(span, err)
	}

	r.logger.InfoContext(ctx, "Product deleted from repository",
		slog.Int64("product_id", id),
	)
	span.SetStatus(codes.Ok, "Product deleted successfully")
	return nil
}

func (r *ProductRepository) fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
