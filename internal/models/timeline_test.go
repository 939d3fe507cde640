package models

import "testing"

func TestDurationDays(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  int
	}{
		{"same day", "2024-01-01", "2024-01-01", 1},
		{"one week", "2024-01-01", "2024-01-07", 7},
		{"across month", "2024-01-30", "2024-02-02", 4},
		{"reversed", "2024-01-07", "2024-01-01", 7},
		{"invalid", "soon", "2024-01-01", 0},
		{"four centuries", "1700-01-01", "2100-01-01", 146098},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := TimelineStage{StartDate: tt.start, EndDate: tt.end}
			if got := s.DurationDays(); got != tt.want {
				t.Errorf("DurationDays() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStageValidate(t *testing.T) {
	ok := TimelineStage{StartDate: "2024-01-01", EndDate: "2024-01-08"}
	if err := ok.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	backwards := TimelineStage{StartDate: "2024-01-08", EndDate: "2024-01-01"}
	if err := backwards.Validate(); err == nil {
		t.Error("Validate() accepted an end date before the start date")
	}
}

func TestParseStageAndStatus(t *testing.T) {
	if st, err := ParseStage("launch"); err != nil || st != StageLaunch {
		t.Errorf("ParseStage(launch) = %q, %v", st, err)
	}
	if st, err := ParseStageStatus("in progress"); err != nil || st != StageInProgress {
		t.Errorf("ParseStageStatus(in progress) = %q, %v", st, err)
	}
	if _, err := ParseStage("Retro"); err == nil {
		t.Error("ParseStage(Retro) should fail")
	}
}

func TestSortStagesUnparsableLast(t *testing.T) {
	stages := []TimelineStage{
		{ID: "a", StartDate: "tbd"},
		{ID: "b", StartDate: "2024-02-01"},
		{ID: "c", StartDate: "2024-01-01"},
	}
	SortStages(stages)

	got := stages[0].ID + stages[1].ID + stages[2].ID
	if got != "cba" {
		t.Errorf("SortStages() order = %s, want cba", got)
	}
}
