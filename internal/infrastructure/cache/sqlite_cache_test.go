package cache

import (
	"context"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"deliverydesk/internal/infrastructure/persistence/sqlite/model"
	"deliverydesk/internal/ports"
)

func setupSQLiteCache(t *testing.T) *SQLiteCache {
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

	if err := db.AutoMigrate(&model.ViewKV{}); err != nil {
		t.Fatalf("auto migrate view_kv: %v", err)
	}

	return NewSQLiteCache(db)
}

func exerciseCache(t *testing.T, cache ports.Cache) {
	t.Helper()
	ctx := context.Background()

	if err := cache.Set(ctx, "filter:issue_type", "Damaged", 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, found, err := cache.Get(ctx, "filter:issue_type")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || value != "Damaged" {
		t.Fatalf("Get() = %q, found=%v", value, found)
	}

	if err := cache.Set(ctx, "filter:issue_type", "Lost", 0); err != nil {
		t.Fatalf("Set(update) error = %v", err)
	}
	value, found, err = cache.Get(ctx, "filter:issue_type")
	if err != nil || !found || value != "Lost" {
		t.Fatalf("Get() after update = %q, found=%v, err=%v", value, found, err)
	}

	if err := cache.Delete(ctx, "filter:issue_type"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	_, found, err = cache.Get(ctx, "filter:issue_type")
	if err != nil {
		t.Fatalf("Get() after delete error = %v", err)
	}
	if found {
		t.Fatalf("Get() expected found=false after delete")
	}

	if err := cache.Set(ctx, "", "v", 0); err == nil {
		t.Fatalf("Set() expected error for empty key")
	}
	if _, _, err := cache.Get(ctx, " "); err == nil {
		t.Fatalf("Get() expected error for empty key")
	}
	if err := cache.Delete(ctx, ""); err == nil {
		t.Fatalf("Delete() expected error for empty key")
	}
}

func TestSQLiteCacheSetGetDelete(t *testing.T) {
	exerciseCache(t, setupSQLiteCache(t))
}
