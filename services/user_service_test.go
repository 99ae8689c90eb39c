package services

import (
	"context"
	"testing"

	"github.com/sujallchaudhary/drive/models"
)

func TestGetStorageUsage(t *testing.T) {
	setupTestConfig()
	users := newFakeUserRepo()
	users.put(models.User{ID: 1, Email: "alice@test", StorageUsed: 250, StorageLimit: 1000})

	svc := NewUserService(users)
	out, err := svc.GetStorageUsage(context.Background(), 1)
	if err != nil {
		t.Fatalf("usage failed: %v", err)
	}
	if out.StorageUsed != 250 || out.StorageLimit != 1000 {
		t.Fatalf("unexpected counters %+v", out)
	}
	if out.AvailableSpace != 750 {
		t.Fatalf("available_space=%d", out.AvailableSpace)
	}
	if out.PercentageUsed != 25 {
		t.Fatalf("percentage_used=%v", out.PercentageUsed)
	}
}

func TestGetStorageUsageClampsOvercommit(t *testing.T) {
	setupTestConfig()
	users := newFakeUserRepo()
	users.put(models.User{ID: 1, Email: "alice@test", StorageUsed: 1200, StorageLimit: 1000})

	svc := NewUserService(users)
	out, err := svc.GetStorageUsage(context.Background(), 1)
	if err != nil {
		t.Fatalf("usage failed: %v", err)
	}
	if out.AvailableSpace != 0 {
		t.Fatalf("available space must floor at zero, got %d", out.AvailableSpace)
	}
	if out.PercentageUsed <= 100 {
		t.Fatalf("expected >100%% when overcommitted, got %v", out.PercentageUsed)
	}
}

func TestGetStorageUsageUnknownUser(t *testing.T) {
	setupTestConfig()
	svc := NewUserService(newFakeUserRepo())
	if _, err := svc.GetStorageUsage(context.Background(), 42); httpCode(t, err) != 404 {
		t.Fatalf("expected 404, got %v", err)
	}
}
