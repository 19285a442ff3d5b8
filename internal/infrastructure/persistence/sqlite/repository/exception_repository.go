package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"deliverydesk/internal/domain/exception"
	"deliverydesk/internal/errs"
	"deliverydesk/internal/infrastructure/persistence/sqlite/model"
	"deliverydesk/internal/ports"
)

type ExceptionRepository struct {
	db *gorm.DB
}

var _ ports.ExceptionRepository = (*ExceptionRepository)(nil)

func NewExceptionRepository(db *gorm.DB) *ExceptionRepository {
	return &ExceptionRepository{db: db}
}

func (r *ExceptionRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

func (r *ExceptionRepository) List(ctx context.Context) ([]exception.Record, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.Exception
	if err := db.Order("exception_id asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query exceptions")
	}

	items := make([]exception.Record, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapException(row))
	}
	return items, nil
}

func (r *ExceptionRepository) Get(ctx context.Context, id uint64) (exception.Record, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return exception.Record{}, err
	}

	var row model.Exception
	if err := db.Where("exception_id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return exception.Record{}, ports.ErrExceptionNotFound
		}
		return exception.Record{}, errs.Wrapf(err, "query exception %d", id)
	}
	return mapException(row), nil
}

func (r *ExceptionRepository) Create(ctx context.Context, record exception.Record) (exception.Record, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return exception.Record{}, err
	}

	now := nowUTCString()
	row := model.Exception{
		DeliveryID:   record.DeliveryID,
		CustomerName: record.CustomerName,
		IssueType:    string(record.IssueType),
		Priority:     string(record.Priority),
		Status:       string(record.Status),
		Notes:        record.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.Create(&row).Error; err != nil {
		return exception.Record{}, errs.Wrap(err, "insert exception")
	}
	return mapException(row), nil
}

func (r *ExceptionRepository) UpdateStatus(ctx context.Context, id uint64, status exception.Status) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Model(&model.Exception{}).
		Where("exception_id = ?", id).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": nowUTCString(),
		})
	if result.Error != nil {
		return errs.Wrapf(result.Error, "update exception %d status", id)
	}
	if result.RowsAffected == 0 {
		return ports.ErrExceptionNotFound
	}
	return nil
}

func (r *ExceptionRepository) Delete(ctx context.Context, id uint64) error {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return err
	}

	result := db.Where("exception_id = ?", id).Delete(&model.Exception{})
	if result.Error != nil {
		return errs.Wrapf(result.Error, "delete exception %d", id)
	}
	if result.RowsAffected == 0 {
		return ports.ErrExceptionNotFound
	}
	return nil
}

func mapException(row model.Exception) exception.Record {
	return exception.Record{
		ID:           row.ExceptionID,
		DeliveryID:   row.DeliveryID,
		CustomerName: row.CustomerName,
		IssueType:    exception.IssueType(row.IssueType),
		Priority:     exception.Priority(row.Priority),
		Status:       exception.Status(row.Status),
		Notes:        row.Notes,
	}
}

func nowUTCString() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
