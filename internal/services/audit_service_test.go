package services

import (
	"testing"

	"gagyebu/internal/models"
	"gagyebu/internal/pagination"
	"gagyebu/internal/testutil"
)

func TestAuditService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewAuditService(db)

	svc.Log(AuditCloseMonth, ResourceMonth, MonthResourceID(2024, 5), "127.0.0.1", map[string]interface{}{"total_income": "50000"})
	svc.Log(AuditReopenMonth, ResourceMonth, MonthResourceID(2024, 5), "127.0.0.1", nil)
	svc.Log(AuditCloseMonth, ResourceMonth, MonthResourceID(2024, 6), "127.0.0.1", nil)
	svc.Log(AuditSetExchangeRate, "setting", models.SettingAEDToKRWRate, "127.0.0.1", map[string]interface{}{"aed_to_krw": "400"})

	t.Run("records changes as JSON", func(t *testing.T) {
		var entry models.AuditLog
		if err := db.Where("action = ? AND resource_id = ?", AuditCloseMonth, "2024-05").First(&entry).Error; err != nil {
			t.Fatalf("expected entry: %v", err)
		}
		if entry.Changes != `{"total_income":"50000"}` {
			t.Errorf("unexpected changes %q", entry.Changes)
		}
	})

	t.Run("empty changes are stored empty", func(t *testing.T) {
		var entry models.AuditLog
		if err := db.Where("action = ?", AuditReopenMonth).First(&entry).Error; err != nil {
			t.Fatalf("expected entry: %v", err)
		}
		if entry.Changes != "" {
			t.Errorf("expected no changes, got %q", entry.Changes)
		}
	})

	t.Run("history filters by month", func(t *testing.T) {
		page, err := svc.History(pagination.PageRequest{}, AuditFilter{ResourceType: ResourceMonth, ResourceID: "2024-05"})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 || len(page.Data) != 2 {
			t.Fatalf("expected 2 entries, got %d", page.TotalItems)
		}
		for _, e := range page.Data {
			if e.ResourceID != "2024-05" {
				t.Errorf("unexpected entry for %s", e.ResourceID)
			}
		}
	})

	t.Run("history filters by action", func(t *testing.T) {
		page, err := svc.History(pagination.PageRequest{}, AuditFilter{Action: AuditCloseMonth})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 2 {
			t.Errorf("expected 2 close entries, got %d", page.TotalItems)
		}
	})

	t.Run("history pages", func(t *testing.T) {
		page, err := svc.History(pagination.PageRequest{Page: 2, PageSize: 3}, AuditFilter{})
		testutil.AssertNoError(t, err)
		if page.TotalItems != 4 || len(page.Data) != 1 || page.TotalPages != 2 {
			t.Errorf("unexpected page %+v", page)
		}
	})
}

func TestMonthResourceID(t *testing.T) {
	if got := MonthResourceID(2024, 5); got != "2024-05" {
		t.Errorf("expected 2024-05, got %s", got)
	}
}
