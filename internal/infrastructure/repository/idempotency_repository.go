package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	domainRepo "github.com/sangkips/supermarket-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, scope string) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where("key = ? AND scope = ?", key, scope).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ikey, err
}

// Reserve inserts an in-progress row; an expired row with the same key and scope is cleared first
func (r *idempotencyRepository) Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	var reserved bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("key = ? AND scope = ? AND expires_at < ?", ikey.Key, ikey.Scope, time.Now()).
			Delete(&entity.IdempotencyKey{}).Error; err != nil {
			return err
		}
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}, {Name: "scope"}},
			DoNothing: true,
		}).Create(ikey)
		if result.Error != nil {
			return result.Error
		}
		reserved = result.RowsAffected == 1
		return nil
	})
	return reserved, err
}

func (r *idempotencyRepository) Complete(ctx context.Context, ikey *entity.IdempotencyKey) error {
	result := r.db.WithContext(ctx).
		Model(&entity.IdempotencyKey{}).
		Where("key = ? AND scope = ?", ikey.Key, ikey.Scope).
		Updates(map[string]interface{}{
			"endpoint":      ikey.Endpoint,
			"response_code": ikey.ResponseCode,
			"response_body": ikey.ResponseBody,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("idempotency key %s is not reserved", ikey.Key)
	}
	return nil
}

func (r *idempotencyRepository) Release(ctx context.Context, key, scope string) error {
	return r.db.WithContext(ctx).
		Where("key = ? AND scope = ? AND response_code = 0", key, scope).
		Delete(&entity.IdempotencyKey{}).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&entity.IdempotencyKey{}).Error
}
