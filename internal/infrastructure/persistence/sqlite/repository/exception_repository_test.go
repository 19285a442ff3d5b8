package repository

import (
	"context"
	"errors"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"deliverydesk/internal/domain/exception"
	"deliverydesk/internal/infrastructure/persistence/sqlite/model"
	"deliverydesk/internal/infrastructure/persistence/sqlite/uow"
	"deliverydesk/internal/ports"
)

func setupExceptionRepository(t *testing.T) (*ExceptionRepository, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return NewExceptionRepository(db), db
}

func newRecord(deliveryID string, issueType exception.IssueType) exception.Record {
	return exception.Record{
		DeliveryID:   deliveryID,
		CustomerName: "Alice",
		IssueType:    issueType,
		Priority:     exception.PriorityHigh,
		Status:       exception.StatusOpen,
	}
}

func TestCreateListPreservesInsertionOrder(t *testing.T) {
	repo, _ := setupExceptionRepository(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, newRecord("D1", "Damaged"))
	if err != nil {
		t.Fatalf("Create(D1) error = %v", err)
	}
	second, err := repo.Create(ctx, newRecord("D2", "Lost"))
	if err != nil {
		t.Fatalf("Create(D2) error = %v", err)
	}
	if second.ID <= first.ID {
		t.Fatalf("ids not increasing: %d then %d", first.ID, second.ID)
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 2 || items[0].DeliveryID != "D1" || items[1].DeliveryID != "D2" {
		t.Fatalf("List() = %+v", items)
	}
	if items[0].Status != exception.StatusOpen || items[0].Priority != exception.PriorityHigh {
		t.Fatalf("List()[0] = %+v", items[0])
	}
}

func TestDeletedIDIsNeverReused(t *testing.T) {
	repo, _ := setupExceptionRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newRecord("D1", "Damaged"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	next, err := repo.Create(ctx, newRecord("D2", "Damaged"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if next.ID <= created.ID {
		t.Fatalf("id reused: deleted %d, next %d", created.ID, next.ID)
	}
}

func TestUpdateStatusAndMissingRows(t *testing.T) {
	repo, _ := setupExceptionRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, newRecord("D1", "Damaged"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.UpdateStatus(ctx, created.ID, exception.StatusResolved); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	got, err := repo.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != exception.StatusResolved {
		t.Fatalf("Get().Status = %q", got.Status)
	}

	if _, err := repo.Get(ctx, 999); !errors.Is(err, ports.ErrExceptionNotFound) {
		t.Fatalf("Get(999) error = %v", err)
	}
	if err := repo.UpdateStatus(ctx, 999, exception.StatusResolved); !errors.Is(err, ports.ErrExceptionNotFound) {
		t.Fatalf("UpdateStatus(999) error = %v", err)
	}
	if err := repo.Delete(ctx, 999); !errors.Is(err, ports.ErrExceptionNotFound) {
		t.Fatalf("Delete(999) error = %v", err)
	}
}

func TestUnitOfWorkRollsBack(t *testing.T) {
	repo, db := setupExceptionRepository(t)
	ctx := context.Background()
	unit := uow.NewUnitOfWork(db)

	boom := errors.New("boom")
	err := unit.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := repo.Create(txCtx, newRecord("D1", "Damaged")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx() error = %v", err)
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("List() after rollback = %+v", items)
	}
}
