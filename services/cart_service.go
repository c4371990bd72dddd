package services

import (
	"context"

	"go.uber.org/zap"

	"cart-store/apperrors"
	"cart-store/models"
	"cart-store/repository"
)

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// CartService defines the business operations exposed to the UI layer.
type CartService interface {
	AddItem(ctx context.Context, userID string, req *models.AddItemRequest) (*models.CartLine, *ServiceError)
	GetCart(ctx context.Context, userID string) ([]models.CartLine, *ServiceError)
	UpdateItem(ctx context.Context, userID, productID string, patch *models.CartPatch) (*models.CartLine, *ServiceError)
	SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.CartLine, *ServiceError)
	RemoveItem(ctx context.Context, userID, productID string) *ServiceError
	RemoveItems(ctx context.Context, userID string, productIDs []string) (int64, *ServiceError)
	ClearCart(ctx context.Context, userID string) (int64, *ServiceError)
}

// cartServiceImpl implements CartService.
type cartServiceImpl struct {
	repo   repository.CartRepository
	logger *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(repo repository.CartRepository, logger *zap.Logger) CartService {
	return &cartServiceImpl{repo: repo, logger: logger}
}

// AddItem adds a product selection to the cart, incrementing the existing
// line when the same (product, size, color) key is already present.
func (s *cartServiceImpl) AddItem(ctx context.Context, userID string, req *models.AddItemRequest) (*models.CartLine, *ServiceError) {
	line := &models.CartLine{
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		Brand:        req.Brand,
		Category:     req.Category,
		Size:         req.Size,
		Color:        req.Color,
		Gender:       req.Gender,
		ProductImage: req.ProductImage,
		ProductName:  req.ProductName,
		ProductPrice: req.ProductPrice,
	}

	saved, err := s.repo.AddOrIncrement(ctx, userID, line)
	if err != nil {
		return nil, s.mapError(err, "add cart item",
			zap.String("user_id", userID), zap.String("product_id", req.ProductID))
	}

	s.logger.Info("Cart item added",
		zap.String("user_id", userID),
		zap.String("product_id", saved.ProductID),
		zap.Int("quantity", saved.Quantity),
	)
	return saved, nil
}

// GetCart returns the user's cart lines, most recently touched first.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) ([]models.CartLine, *ServiceError) {
	lines, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, s.mapError(err, "get cart", zap.String("user_id", userID))
	}
	return lines, nil
}

// UpdateItem applies a partial patch to a cart line, merging into a
// colliding line when the patch moves the size/color key.
func (s *cartServiceImpl) UpdateItem(ctx context.Context, userID, productID string, patch *models.CartPatch) (*models.CartLine, *ServiceError) {
	updated, err := s.repo.UpdateFields(ctx, userID, productID, patch)
	if err != nil {
		return nil, s.mapError(err, "update cart item",
			zap.String("user_id", userID), zap.String("product_id", productID))
	}
	return updated, nil
}

// SetQuantity overwrites a cart line's quantity verbatim.
func (s *cartServiceImpl) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.CartLine, *ServiceError) {
	updated, err := s.repo.SetQuantity(ctx, userID, productID, quantity)
	if err != nil {
		return nil, s.mapError(err, "set cart quantity",
			zap.String("user_id", userID), zap.String("product_id", productID))
	}
	return updated, nil
}

// RemoveItem deletes every variant of the product from the cart.
func (s *cartServiceImpl) RemoveItem(ctx context.Context, userID, productID string) *ServiceError {
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		return s.mapError(err, "remove cart item",
			zap.String("user_id", userID), zap.String("product_id", productID))
	}
	return nil
}

// RemoveItems deletes all variants of each listed product.
func (s *cartServiceImpl) RemoveItems(ctx context.Context, userID string, productIDs []string) (int64, *ServiceError) {
	removed, err := s.repo.RemoveMany(ctx, userID, productIDs)
	if err != nil {
		return 0, s.mapError(err, "remove cart items", zap.String("user_id", userID))
	}
	return removed, nil
}

// ClearCart deletes all of the user's cart lines.
func (s *cartServiceImpl) ClearCart(ctx context.Context, userID string) (int64, *ServiceError) {
	removed, err := s.repo.ClearCart(ctx, userID)
	if err != nil {
		return 0, s.mapError(err, "clear cart", zap.String("user_id", userID))
	}

	s.logger.Info("Cart cleared", zap.String("user_id", userID), zap.Int64("removed", removed))
	return removed, nil
}

// mapError translates store errors into HTTP-facing ServiceErrors. Storage
// failures are logged here; validation and not-found outcomes are the
// caller's problem and stay quiet.
func (s *cartServiceImpl) mapError(err error, op string, fields ...zap.Field) *ServiceError {
	switch {
	case apperrors.IsValidation(err):
		return &ServiceError{StatusCode: 400, Message: err.Error()}
	case apperrors.IsNotFound(err):
		return &ServiceError{StatusCode: 404, Message: err.Error()}
	default:
		s.logger.Error("Cart store failure: "+op, append(fields, zap.Error(err))...)
		return &ServiceError{StatusCode: 500, Message: "failed to " + op}
	}
}
