package booking

import (
	"context"
	"testing"
)

func TestMemoryRepoCreateAssignsID(t *testing.T) {
	r := NewMemoryRepo()

	err := r.Create(context.Background(), Appointment{
		BusinessID:    "b1",
		CustomerName:  "Ayşe",
		CustomerPhone: "+905551112233",
		Date:          "2025-06-01",
		Time:          "10:00",
		ServiceID:     "1",
		Price:         100,
		Status:        StatusConfirmed,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	all := r.All()
	if len(all) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(all))
	}
	if all[0].ID == "" {
		t.Fatalf("expected generated id")
	}
	if all[0].Status != StatusConfirmed {
		t.Fatalf("unexpected status: %q", all[0].Status)
	}
}

func TestMemoryRepoAllReturnsSnapshot(t *testing.T) {
	r := NewMemoryRepo()
	if err := r.Create(context.Background(), Appointment{BusinessID: "b1"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	snap := r.All()
	snap[0].BusinessID = "mutated"

	if r.All()[0].BusinessID != "b1" {
		t.Fatalf("snapshot mutation leaked into the repo")
	}
}
