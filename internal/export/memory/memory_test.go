package memory

import (
	"context"
	"testing"

	"fintrack/internal/core"
)

func TestAppendAndItems(t *testing.T) {
	s := New()
	tx := core.Transaction{
		ID:       "t1",
		UserID:   "u1",
		Type:     core.Income,
		Amount:   core.Money{Cents: 1500},
		Category: "salary",
		Date:     1718000000000,
	}

	ref, err := s.Append(context.Background(), tx)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if ref != "mem:1" {
		t.Fatalf("ref = %q, want mem:1", ref)
	}

	items := s.Items()
	if len(items) != 1 || items[0].ID != "t1" {
		t.Fatalf("Items = %+v", items)
	}
}

func TestAppendRejectsInvalid(t *testing.T) {
	s := New()
	_, err := s.Append(context.Background(), core.Transaction{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(s.Items()) != 0 {
		t.Fatal("invalid transaction must not be stored")
	}
}
