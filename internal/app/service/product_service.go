package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mrops-br/products-catalog/internal/app/dto"
	"github.com/mrops-br/products-catalog/internal/domain"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Operation results recorded on the products.operations counter
const (
	resultSuccess   = "success"
	resultInvalid   = "invalid"
	resultForbidden = "forbidden"
	resultNotFound  = "not_found"
	resultFailure   = "failure"
)

// ProductService implements the product workflow: the browser-facing
// operations gated by CanManageProducts and the data-facing operations.
type ProductService struct {
	repo                  domain.ProductRepository
	tracer                trace.Tracer
	logger                *slog.Logger
	productCreatedCounter metric.Int64Counter
	productOperations     metric.Int64Counter
}

// NewProductService creates a new product service
func NewProductService(
	repo domain.ProductRepository,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *ProductService {
	productCreatedCounter, _ := meter.Int64Counter(
		"products.created.total",
		metric.WithDescription("Total number of products created"),
	)

	productOperations, _ := meter.Int64Counter(
		"products.operations",
		metric.WithDescription("Total number of product operations"),
	)

	return &ProductService{
		repo:                  repo,
		tracer:                tracer,
		logger:                logger,
		productCreatedCounter: productCreatedCounter,
		productOperations:     productOperations,
	}
}

// List returns every product for an authenticated actor
func (s *ProductService) List(ctx context.Context, actor *domain.Actor) (res *ListResult, err error) {
	ctx, span := s.start(ctx, "List", actor)
	defer func() { s.finish(ctx, span, "list", err) }()

	if actor == nil {
		return nil, domain.ErrUnauthenticated
	}

	products, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Products:             products,
		Empty:                len(products) == 0,
		ShowCreateAffordance: domain.CanManageProducts(actor),
	}, nil
}

// CreateForm returns the data for an empty create form
func (s *ProductService) CreateForm(ctx context.Context, actor *domain.Actor) (res *CreateFormResult, err error) {
	ctx, span := s.start(ctx, "CreateForm", actor)
	defer func() { s.finish(ctx, span, "create_form", err) }()

	if err := authorize(actor); err != nil {
		return nil, err
	}

	products, err := s.findAll(ctx)
	if err != nil {
		return nil, err
	}
	return &CreateFormResult{Products: products}, nil
}

// Create validates and stores a new product on behalf of an administrator
func (s *ProductService) Create(ctx context.Context, actor *domain.Actor, req dto.ProductRequest) (res *Redirect, err error) {
	ctx, span := s.start(ctx, "Create", actor)
	defer func() { s.finish(ctx, span, "create", err) }()

	if err := authorize(actor); err != nil {
		return nil, err
	}

	if _, err := s.create(ctx, req); err != nil {
		return nil, err
	}
	return &Redirect{Location: ListLocation}, nil
}

// EditForm loads a product for the edit form
func (s *ProductService) EditForm(ctx context.Context, actor *domain.Actor, id int64) (res *EditFormResult, err error) {
	ctx, span := s.start(ctx, "EditForm", actor)
	span.SetAttributes(attribute.Int64("product.id", id))
	defer func() { s.finish(ctx, span, "edit_form", err) }()

	if err := authorize(actor); err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EditFormResult{Product: dto.ToProductResponse(product)}, nil
}

// Update applies name and description to an existing product
func (s *ProductService) Update(ctx context.Context, actor *domain.Actor, id int64, req dto.ProductRequest) (res *Redirect, err error) {
	ctx, span := s.start(ctx, "Update", actor)
	span.SetAttributes(attribute.Int64("product.id", id))
	defer func() { s.finish(ctx, span, "update", err) }()

	if err := authorize(actor); err != nil {
		return nil, err
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fields, err := domain.ValidateProduct(req.Fields())
	if err != nil {
		return nil, err
	}

	product.Apply(fields)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Product updated successfully",
		slog.Int64("product_id", id),
	)
	return &Redirect{Location: ListLocation, Message: MessageUpdated}, nil
}

// Delete removes an existing product permanently
func (s *ProductService) Delete(ctx context.Context, actor *domain.Actor, id int64) (res *Redirect, err error) {
	ctx, span := s.start(ctx, "Delete", actor)
	span.SetAttributes(attribute.Int64("product.id", id))
	defer func() { s.finish(ctx, span, "delete", err) }()

	if err := authorize(actor); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Product deleted successfully",
		slog.Int64("product_id", id),
	)
	return &Redirect{Location: ListLocation, Message: MessageDeleted}, nil
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, req dto.ProductRequest) (res *dto.ProductResponse, err error) {
	ctx, span := s.start(ctx, "CreateProduct", nil)
	defer func() { s.finish(ctx, span, "api_create", err) }()

	return s.create(ctx, req)
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id int64) (res *dto.ProductResponse, err error) {
	ctx, span := s.start(ctx, "GetProductByID", nil)
	span.SetAttributes(attribute.Int64("product.id", id))
	defer func() { s.finish(ctx, span, "read", err) }()

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// ListProducts retrieves all products
func (s *ProductService) ListProducts(ctx context.Context) (res []*dto.ProductResponse, err error) {
	ctx, span := s.start(ctx, "ListProducts", nil)
	defer func() { s.finish(ctx, span, "api_list", err) }()

	return s.findAll(ctx)
}

func (s *ProductService) create(ctx context.Context, req dto.ProductRequest) (*dto.ProductResponse, error) {
	product, err := domain.NewProduct(req.Fields())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.productCreatedCounter.Add(ctx, 1)
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("product.id", product.ID))
	s.logger.InfoContext(ctx, "Product created successfully",
		slog.Int64("product_id", product.ID),
	)
	return dto.ToProductResponse(product), nil
}

func (s *ProductService) findAll(ctx context.Context) ([]*dto.ProductResponse, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("product.count", len(products)))
	return dto.ToProductResponseList(products), nil
}

func authorize(actor *domain.Actor) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if !domain.CanManageProducts(actor) {
		return domain.ErrForbidden
	}
	return nil
}

func (s *ProductService) start(ctx context.Context, name string, actor *domain.Actor) (context.Context, trace.Span) {
	ctx, span := s.tracer.Start(ctx, "ProductService."+name)
	if actor != nil {
		span.SetAttributes(
			attribute.String("actor.subject", actor.Subject),
			attribute.Bool("actor.admin", actor.IsAdministrator),
		)
	}
	return ctx, span
}

// finish records the operation metric, sets the span status and ends the span
func (s *ProductService) finish(ctx context.Context, span trace.Span, operation string, err error) {
	defer span.End()

	result := resultOf(err)
	s.productOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)

	switch result {
	case resultSuccess:
		span.SetStatus(codes.Ok, "")
	case resultFailure:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "Product operation failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
	default:
		span.SetAttributes(attribute.String("product.result", result))
		s.logger.WarnContext(ctx, "Product operation rejected",
			slog.String("operation", operation),
			slog.String("result", result),
			slog.String("reason", err.Error()),
		)
	}
}

func resultOf(err error) string {
	var verr *domain.ValidationError
	switch {
	case err == nil:
		return resultSuccess
	case errors.As(err, &verr):
		return resultInvalid
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthenticated):
		return resultForbidden
	case errors.Is(err, domain.ErrProductNotFound):
		return resultNotFound
	default:
		return resultFailure
	}
}
