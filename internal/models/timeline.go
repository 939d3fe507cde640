package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/clientmgr/internal/constants"
)

type Stage string

const (
	StageDiscovery   Stage = "Discovery"
	StageDesign      Stage = "Design"
	StageDevelopment Stage = "Development"
	StageTesting     Stage = "Testing"
	StageLaunch      Stage = "Launch"
	StageMaintenance Stage = "Maintenance"
)

var Stages = []Stage{
	StageDiscovery,
	StageDesign,
	StageDevelopment,
	StageTesting,
	StageLaunch,
	StageMaintenance,
}

type StageStatus string

const (
	StagePlanned    StageStatus = "Planned"
	StageInProgress StageStatus = "In Progress"
	StageCompleted  StageStatus = "Completed"
	StageDelayed    StageStatus = "Delayed"
)

var StageStatuses = []StageStatus{
	StagePlanned,
	StageInProgress,
	StageCompleted,
	StageDelayed,
}

type TimelineStage struct {
	ID        string      `json:"id"`
	Stage     Stage       `json:"stage"`
	StartDate string      `json:"startDate"` // YYYY-MM-DD format
	EndDate   string      `json:"endDate"`   // YYYY-MM-DD format
	Status    StageStatus `json:"status"`
	Notes     string      `json:"notes,omitempty"`
}

func ParseStage(s string) (Stage, error) {
	for _, st := range Stages {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid stage %q", s)
}

func ParseStageStatus(s string) (StageStatus, error) {
	for _, st := range StageStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid stage status %q", s)
}

func (s TimelineStage) Validate() error {
	start, err := time.Parse(constants.DateFormat, s.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date %q (expected YYYY-MM-DD)", s.StartDate)
	}
	end, err := time.Parse(constants.DateFormat, s.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date %q (expected YYYY-MM-DD)", s.EndDate)
	}
	if end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s", s.EndDate, s.StartDate)
	}
	return nil
}

const secondsPerDay = 24 * 60 * 60

// DurationDays returns the inclusive number of days the stage spans,
// or 0 when either date cannot be parsed.
func (s TimelineStage) DurationDays() int {
	start, err := time.Parse(constants.DateFormat, s.StartDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse(constants.DateFormat, s.EndDate)
	if err != nil {
		return 0
	}
	days := (end.Unix() - start.Unix()) / secondsPerDay
	if days < 0 {
		days = -days
	}
	return int(days) + 1
}

// SortStages orders stages ascending by start date. Unparsable dates sort last.
func SortStages(stages []TimelineStage) {
	sort.SliceStable(stages, func(i, j int) bool {
		a, errA := time.Parse(constants.DateFormat, stages[i].StartDate)
		b, errB := time.Parse(constants.DateFormat, stages[j].StartDate)
		if errA != nil {
			return false
		}
		if errB != nil {
			return true
		}
		return a.Before(b)
	})
}
