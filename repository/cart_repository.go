package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"cart-store/apperrors"
	"cart-store/models"
)

// CartRepository defines the operations of the local cart store. The cart
// table enforces UNIQUE(user_id, product_id, size, color); every mutating
// operation runs inside a transaction so the pre-check and the write cannot
// be split by a concurrent caller.
type CartRepository interface {
	// AddOrIncrement inserts a new line for the (user, product, size, color)
	// key, or adds the quantity onto the line already holding that key.
	AddOrIncrement(ctx context.Context, userID string, line *models.CartLine) (*models.CartLine, error)
	// ListByUser returns the user's lines, most recently touched first.
	// Never returns nil; a missing user yields an empty slice.
	ListByUser(ctx context.Context, userID string) ([]models.CartLine, error)
	// UpdateFields applies a partial patch to the line addressed by
	// user+product. When the patch changes size or color onto a key another
	// line already holds, the quantities are merged into that pre-existing
	// line and the edited line is deleted.
	UpdateFields(ctx context.Context, userID, productID string, patch *models.CartPatch) (*models.CartLine, error)
	// SetQuantity overwrites the quantity of the line addressed by
	// user+product. No clamping is applied.
	SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.CartLine, error)
	// RemoveItem deletes every size/color variant of the product. Idempotent.
	RemoveItem(ctx context.Context, userID, productID string) error
	// RemoveMany deletes all variants of each listed product and reports how
	// many lines went away. An empty list is a no-op.
	RemoveMany(ctx context.Context, userID string, productIDs []string) (int64, error)
	// ClearCart deletes all of the user's lines. Idempotent.
	ClearCart(ctx context.Context, userID string) (int64, error)
}

// GormCartRepository implements CartRepository against the embedded SQLite
// store.
type GormCartRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormCartRepository creates a new GormCartRepository.
func NewGormCartRepository(db *gorm.DB, logger *zap.Logger) CartRepository {
	return &GormCartRepository{db: db, logger: logger}
}

func (r *GormCartRepository) AddOrIncrement(ctx context.Context, userID string, line *models.CartLine) (*models.CartLine, error) {
	if userID == "" {
		return nil, apperrors.NewValidation("user_id", "required")
	}
	if line == nil || line.ProductID == "" {
		return nil, apperrors.NewValidation("product_id", "required")
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}

	var result models.CartLine
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CartLine
		err := tx.
			Where("user_id = ? AND product_id = ? AND size = ? AND color = ?",
				userID, line.ProductID, line.Size, line.Color).
			First(&existing).Error
		switch {
		case err == nil:
			now := time.Now()
			if err := tx.Model(&existing).UpdateColumns(map[string]interface{}{
				"quantity":  existing.Quantity + line.Quantity,
				"updatedAt": now,
			}).Error; err != nil {
				return apperrors.NewStorage("AddOrIncrement", err)
			}
			existing.Quantity += line.Quantity
			existing.UpdatedAt = now
			result = existing
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			now := time.Now()
			line.UserID = userID
			line.CreatedAt = now
			line.UpdatedAt = now
			if err := tx.Create(line).Error; err != nil {
				return apperrors.NewStorage("AddOrIncrement", err)
			}
			result = *line
			return nil
		default:
			return apperrors.NewStorage("AddOrIncrement", err)
		}
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *GormCartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	if userID == "" {
		return lines, nil
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updatedAt DESC").
		Find(&lines).Error; err != nil {
		return nil, apperrors.NewStorage("ListByUser", err)
	}

	// Guard against a corrupted read path: a line owned by someone else is
	// dropped and warned about, never returned.
	filtered := lines[:0]
	for _, line := range lines {
		if line.UserID != userID {
			r.logger.Warn("cart line owner mismatch, dropping from result",
				zap.Uint("line_id", line.ID),
				zap.String("expected_user", userID),
				zap.String("actual_user", line.UserID),
			)
			continue
		}
		filtered = append(filtered, line)
	}
	return filtered, nil
}

func (r *GormCartRepository) UpdateFields(ctx context.Context, userID, productID string, patch *models.CartPatch) (*models.CartLine, error) {
	if userID == "" {
		return nil, apperrors.NewValidation("user_id", "required")
	}
	if productID == "" {
		return nil, apperrors.NewValidation("product_id", "required")
	}
	if patch == nil {
		patch = &models.CartPatch{}
	}

	var result models.CartLine
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Addressing by user+product alone is ambiguous when multiple
		// size/color variants exist; the lowest-id line is targeted.
		var current models.CartLine
		if err := tx.
			Where("user_id = ? AND product_id = ?", userID, productID).
			First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("cart line")
			}
			return apperrors.NewStorage("UpdateFields", err)
		}

		if patch.TouchesKey() {
			newSize, newColor := current.Size, current.Color
			if patch.Size != nil {
				newSize = *patch.Size
			}
			if patch.Color != nil {
				newColor = *patch.Color
			}

			var survivor models.CartLine
			err := tx.
				Where("user_id = ? AND product_id = ? AND size = ? AND color = ? AND id <> ?",
					userID, productID, newSize, newColor, current.ID).
				First(&survivor).Error
			switch {
			case err == nil:
				return r.mergeInto(tx, &survivor, &current, patch, &result)
			case errors.Is(err, gorm.ErrRecordNotFound):
				// no collision, plain update below
			default:
				return apperrors.NewStorage("UpdateFields", err)
			}
		}

		columns := patchColumns(patch)
		columns["updatedAt"] = time.Now()
		if err := tx.Model(&current).UpdateColumns(columns).Error; err != nil {
			return apperrors.NewStorage("UpdateFields", err)
		}
		if err := tx.First(&result, current.ID).Error; err != nil {
			return apperrors.NewStorage("UpdateFields", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// mergeInto folds the edited line into the line already holding the
// prospective key: the survivor absorbs the edited line's quantity (the
// patched value when supplied) and the edited line is deleted, so the key
// never points at two rows, even transiently.
func (r *GormCartRepository) mergeInto(tx *gorm.DB, survivor, edited *models.CartLine, patch *models.CartPatch, result *models.CartLine) error {
	quantity := edited.Quantity
	if patch.Quantity != nil {
		quantity = *patch.Quantity
	}

	now := time.Now()
	if err := tx.Model(survivor).UpdateColumns(map[string]interface{}{
		"quantity":  survivor.Quantity + quantity,
		"updatedAt": now,
	}).Error; err != nil {
		return apperrors.NewStorage("UpdateFields", err)
	}
	if err := tx.Delete(&models.CartLine{}, edited.ID).Error; err != nil {
		return apperrors.NewStorage("UpdateFields", err)
	}

	r.logger.Info("merged cart lines on key collision",
		zap.Uint("surviving_id", survivor.ID),
		zap.Uint("deleted_id", edited.ID),
		zap.Int("merged_quantity", survivor.Quantity+quantity),
	)

	survivor.Quantity += quantity
	survivor.UpdatedAt = now
	*result = *survivor
	return nil
}

func (r *GormCartRepository) SetQuantity(ctx context.Context, userID, productID string, quantity int) (*models.CartLine, error) {
	if userID == "" {
		return nil, apperrors.NewValidation("user_id", "required")
	}
	if productID == "" {
		return nil, apperrors.NewValidation("product_id", "required")
	}

	var result models.CartLine
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.CartLine
		if err := tx.
			Where("user_id = ? AND product_id = ?", userID, productID).
			First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFound("cart line")
			}
			return apperrors.NewStorage("SetQuantity", err)
		}

		now := time.Now()
		if err := tx.Model(&current).UpdateColumns(map[string]interface{}{
			"quantity":  quantity,
			"updatedAt": now,
		}).Error; err != nil {
			return apperrors.NewStorage("SetQuantity", err)
		}
		current.Quantity = quantity
		current.UpdatedAt = now
		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *GormCartRepository) RemoveItem(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return apperrors.NewValidation("user_id", "required")
	}
	if productID == "" {
		return apperrors.NewValidation("product_id", "required")
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartLine{}).Error; err != nil {
		return apperrors.NewStorage("RemoveItem", err)
	}
	return nil
}

func (r *GormCartRepository) RemoveMany(ctx context.Context, userID string, productIDs []string) (int64, error) {
	if userID == "" {
		return 0, apperrors.NewValidation("user_id", "required")
	}
	if len(productIDs) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id IN ?", userID, productIDs).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return 0, apperrors.NewStorage("RemoveMany", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *GormCartRepository) ClearCart(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, apperrors.NewValidation("user_id", "required")
	}

	res := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return 0, apperrors.NewStorage("ClearCart", res.Error)
	}
	return res.RowsAffected, nil
}

// patchColumns translates the non-nil patch fields into their column names.
func patchColumns(patch *models.CartPatch) map[string]interface{} {
	columns := map[string]interface{}{}
	if patch.Quantity != nil {
		columns["quantity"] = *patch.Quantity
	}
	if patch.Brand != nil {
		columns["brand"] = *patch.Brand
	}
	if patch.Category != nil {
		columns["category"] = *patch.Category
	}
	if patch.Size != nil {
		columns["size"] = *patch.Size
	}
	if patch.Color != nil {
		columns["color"] = *patch.Color
	}
	if patch.Gender != nil {
		columns["gender"] = *patch.Gender
	}
	if patch.ProductImage != nil {
		columns["productImage"] = *patch.ProductImage
	}
	if patch.ProductName != nil {
		columns["productName"] = *patch.ProductName
	}
	if patch.ProductPrice != nil {
		columns["productPrice"] = *patch.ProductPrice
	}
	return columns
}
