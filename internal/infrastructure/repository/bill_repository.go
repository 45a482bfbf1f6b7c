package repository

import (
	"context"
	"errors"

	"github.com/sangkips/supermarket-api/internal/domain/entity"
	domainRepo "github.com/sangkips/supermarket-api/internal/domain/repository"
	"gorm.io/gorm"
)

type billRepository struct {
	db *gorm.DB
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *gorm.DB) domainRepo.BillRepository {
	return &billRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

// Append inserts the bill and its lines in one transaction
func (r *billRepository) Append(ctx context.Context, bill *entity.Bill) error {
	items := make([]entity.BillLineItem, len(bill.Items))
	for i, item := range bill.Items {
		item.ID = 0
		item.BillID = bill.ID
		item.Position = i
		items[i] = item
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header := *bill
		header.Items = nil
		if err := tx.Create(&header).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *billRepository) LoadAll(ctx context.Context) ([]entity.Bill, error) {
	var bills []entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Order("created_at, id").
		Find(&bills).Error
	return bills, err
}

func (r *billRepository) GetByID(ctx context.Context, id string) (*entity.Bill, error) {
	var bill entity.Bill
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&bill, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bill, err
}
