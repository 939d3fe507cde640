package models

import (
	"math"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("  TechFlow Systems ", "john@techflow.com", fixedNow)

	if c.Name != "TechFlow Systems" {
		t.Errorf("Name = %q, want trimmed name", c.Name)
	}
	if c.Status != StatusLead {
		t.Errorf("Status = %q, want %q", c.Status, StatusLead)
	}
	if c.Type != DefaultClientType {
		t.Errorf("Type = %q, want %q", c.Type, DefaultClientType)
	}
	if c.Date != "2024-03-01" {
		t.Errorf("Date = %q, want 2024-03-01", c.Date)
	}
	if c.Price != 0 || c.Recurring != 0 {
		t.Errorf("Price/Recurring = %v/%v, want 0/0", c.Price, c.Recurring)
	}
	if c.Persistence != Unsaved {
		t.Errorf("Persistence = %v, want unsaved", c.Persistence)
	}
}

func TestClientValidate(t *testing.T) {
	tests := []struct {
		name    string
		client  Client
		wantErr bool
	}{
		{"valid", Client{Name: "A", Email: "a@b.c"}, false},
		{"missing name", Client{Email: "a@b.c"}, true},
		{"blank name", Client{Name: "   ", Email: "a@b.c"}, true},
		{"missing email", Client{Name: "A"}, true},
		{"bad status", Client{Name: "A", Email: "a@b.c", Status: "Paused"}, true},
		{"bad date", Client{Name: "A", Email: "a@b.c", Date: "03/01/2024"}, true},
		{"bad deadline", Client{Name: "A", Email: "a@b.c", FinalDeadline: "soon"}, true},
		{"good deadline", Client{Name: "A", Email: "a@b.c", FinalDeadline: "2024-06-30"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.client.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseClientStatus(t *testing.T) {
	st, err := ParseClientStatus("development")
	if err != nil {
		t.Fatalf("ParseClientStatus() error = %v", err)
	}
	if st != StatusDevelopment {
		t.Errorf("ParseClientStatus() = %q, want %q", st, StatusDevelopment)
	}
	if _, err := ParseClientStatus("Archived"); err == nil {
		t.Error("ParseClientStatus(Archived) should fail")
	}
	if StatusLead.Rank() >= StatusLive.Rank() {
		t.Error("Lead should rank before Live")
	}
}

func TestNormalizeCoercesNumbers(t *testing.T) {
	c := Client{
		Price:     math.NaN(),
		Recurring: math.Inf(1),
		Expenses:  []Expense{{ID: "1", Amount: math.Inf(-1)}},
	}
	c.Normalize()

	if c.Price != 0 || c.Recurring != 0 || c.Expenses[0].Amount != 0 {
		t.Errorf("Normalize() left non-finite values: %+v", c)
	}
	if c.Type != DefaultClientType {
		t.Errorf("Normalize() Type = %q, want default", c.Type)
	}
}

func TestAddAndRemoveExpense(t *testing.T) {
	c := Client{Name: "A", Email: "a@b.c"}

	first := c.AddExpense(Expense{Type: "Hosting", Amount: 5000, Date: "2024-03-01"}, fixedNow)
	second := c.AddExpense(Expense{Type: "Domain", Amount: 3500, Date: "2024-03-01"}, fixedNow)

	if first.ID == "" || second.ID == "" {
		t.Fatal("expense ids were not assigned")
	}
	if first.ID == second.ID {
		t.Fatalf("expense ids collide: %s", first.ID)
	}
	if len(c.Expenses) != 2 {
		t.Fatalf("len(Expenses) = %d, want 2", len(c.Expenses))
	}

	if !c.RemoveExpense(first.ID) {
		t.Error("RemoveExpense() = false for existing expense")
	}
	if c.RemoveExpense("missing") {
		t.Error("RemoveExpense() = true for missing expense")
	}
	if len(c.Expenses) != 1 || c.Expenses[0].ID != second.ID {
		t.Errorf("unexpected expenses after removal: %+v", c.Expenses)
	}
}

func TestRemoveExpenseDoesNotAliasClone(t *testing.T) {
	c := Client{Expenses: []Expense{{ID: "1"}, {ID: "2"}, {ID: "3"}}}
	snapshot := c.Clone()

	c.RemoveExpense("1")

	if len(snapshot.Expenses) != 3 || snapshot.Expenses[0].ID != "1" {
		t.Errorf("clone was mutated: %+v", snapshot.Expenses)
	}
}

func TestAddStageKeepsTimelineSorted(t *testing.T) {
	orders := [][]string{
		{"2024-03-10", "2024-01-05", "2024-02-20", "2024-04-01"},
		{"2024-04-01", "2024-03-10", "2024-02-20", "2024-01-05"},
		{"2024-01-05", "2024-02-20", "2024-03-10", "2024-04-01"},
		{"2024-02-20", "2024-04-01", "2024-01-05", "2024-03-10"},
	}

	for _, order := range orders {
		c := Client{}
		for i, start := range order {
			c.AddStage(TimelineStage{
				Stage:     Stages[i],
				StartDate: start,
				EndDate:   start,
				Status:    StagePlanned,
			}, fixedNow)

			for j := 1; j < len(c.Timeline); j++ {
				if c.Timeline[j-1].StartDate > c.Timeline[j].StartDate {
					t.Fatalf("timeline not sorted after inserting %s: %+v", start, c.Timeline)
				}
			}
		}
		if len(c.Timeline) != len(order) {
			t.Fatalf("len(Timeline) = %d, want %d", len(c.Timeline), len(order))
		}
	}
}

func TestRemoveStage(t *testing.T) {
	c := Client{}
	s := c.AddStage(TimelineStage{Stage: StageDesign, StartDate: "2024-01-01", EndDate: "2024-01-07"}, fixedNow)

	if !c.RemoveStage(s.ID) {
		t.Error("RemoveStage() = false for existing stage")
	}
	if c.RemoveStage(s.ID) {
		t.Error("RemoveStage() = true after removal")
	}
	if len(c.Timeline) != 0 {
		t.Errorf("len(Timeline) = %d, want 0", len(c.Timeline))
	}
}

func TestSetFinalDeadline(t *testing.T) {
	c := Client{Name: "A", Email: "a@b.c", Price: 100}

	if err := c.SetFinalDeadline("2024-06-30"); err != nil {
		t.Fatalf("SetFinalDeadline() error = %v", err)
	}
	if c.FinalDeadline != "2024-06-30" {
		t.Errorf("FinalDeadline = %q", c.FinalDeadline)
	}
	if c.Price != 100 {
		t.Error("SetFinalDeadline() changed unrelated fields")
	}
	if err := c.SetFinalDeadline("next week"); err == nil {
		t.Error("SetFinalDeadline() accepted an invalid date")
	}
	if err := c.SetFinalDeadline(""); err != nil || c.FinalDeadline != "" {
		t.Errorf("SetFinalDeadline(\"\") should clear, got %q, %v", c.FinalDeadline, err)
	}
}
