package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/julianstephens/clientmgr/internal/constants"
)

type ClientStatus string

// Delivery phases in the order a project moves through them.
const (
	StatusLead        ClientStatus = "Lead"
	StatusDiscovery   ClientStatus = "Discovery"
	StatusDesigning   ClientStatus = "Designing"
	StatusDevelopment ClientStatus = "Development"
	StatusTesting     ClientStatus = "Testing"
	StatusLive        ClientStatus = "Live"
)

var ClientStatuses = []ClientStatus{
	StatusLead,
	StatusDiscovery,
	StatusDesigning,
	StatusDevelopment,
	StatusTesting,
	StatusLive,
}

const DefaultClientType = "Project"

// Rank returns the position of the status in the delivery order, or -1 if unknown.
func (s ClientStatus) Rank() int {
	for i, st := range ClientStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// ParseClientStatus matches a status name case-insensitively.
func ParseClientStatus(s string) (ClientStatus, error) {
	for _, st := range ClientStatuses {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (expected one of %s)", s, joinStatuses())
}

func joinStatuses() string {
	names := make([]string, len(ClientStatuses))
	for i, st := range ClientStatuses {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

// Persistence records where an in-memory client came from. It is never serialized.
type Persistence int

const (
	Unsaved Persistence = iota
	LocalOnly
	RemotePersisted
)

func (p Persistence) String() string {
	switch p {
	case LocalOnly:
		return "local-only"
	case RemotePersisted:
		return "remote-persisted"
	default:
		return "unsaved"
	}
}

type Client struct {
	ID            string          `json:"id,omitempty"`
	Name          string          `json:"name"`
	Contact       string          `json:"contact,omitempty"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone,omitempty"`
	PhoneOwner    string          `json:"phoneOwner,omitempty"`
	Instagram     string          `json:"instagram,omitempty"`
	Socials       string          `json:"socials,omitempty"`
	Domain        string          `json:"domain,omitempty"`
	Hosting       string          `json:"hosting,omitempty"`
	Niche         string          `json:"niche,omitempty"`
	Description   string          `json:"description,omitempty"`
	Date          string          `json:"date,omitempty"` // YYYY-MM-DD format
	Status        ClientStatus    `json:"status,omitempty"`
	Type          string          `json:"type,omitempty"`
	Price         float64         `json:"price"`
	Recurring     float64         `json:"recurring"`
	FinalDeadline string          `json:"finalDeadline,omitempty"` // YYYY-MM-DD format
	Expenses      []Expense       `json:"expenses"`
	Timeline      []TimelineStage `json:"timeline"`

	Persistence Persistence `json:"-"`
}

// NewClient returns an unsaved client with the creation defaults applied.
func NewClient(name, email string, now time.Time) Client {
	return Client{
		Name:   strings.TrimSpace(name),
		Email:  strings.TrimSpace(email),
		Status: StatusLead,
		Type:   DefaultClientType,
		Date:   now.Format(constants.DateFormat),
	}
}

// Validate checks the fields that calling code relies on when creating a client.
func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("client name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return fmt.Errorf("client email is required")
	}
	if c.Status != "" && c.Status.Rank() < 0 {
		return fmt.Errorf("invalid status %q", c.Status)
	}
	for _, d := range []struct{ name, value string }{
		{"date", c.Date},
		{"finalDeadline", c.FinalDeadline},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse(constants.DateFormat, d.value); err != nil {
			return fmt.Errorf("invalid %s %q (expected YYYY-MM-DD)", d.name, d.value)
		}
	}
	return nil
}

// Normalize coerces the numeric fields so that only finite numbers are written.
func (c *Client) Normalize() {
	c.Price = CoerceAmount(c.Price)
	c.Recurring = CoerceAmount(c.Recurring)
	for i := range c.Expenses {
		c.Expenses[i].Amount = CoerceAmount(c.Expenses[i].Amount)
	}
	if c.Type == "" {
		c.Type = DefaultClientType
	}
}

// SetFinalDeadline replaces the target delivery date. An empty date clears it.
func (c *Client) SetFinalDeadline(date string) error {
	date = strings.TrimSpace(date)
	if date != "" {
		if _, err := time.Parse(constants.DateFormat, date); err != nil {
			return fmt.Errorf("invalid deadline %q (expected YYYY-MM-DD)", date)
		}
	}
	c.FinalDeadline = date
	return nil
}

// AddExpense appends an expense, assigning it an id unique within this client.
func (c *Client) AddExpense(e Expense, now time.Time) Expense {
	if e.ID == "" || c.hasExpense(e.ID) {
		e.ID = NextTimestampID(now, c.hasExpense)
	}
	e.Amount = CoerceAmount(e.Amount)
	c.Expenses = append(c.Expenses, e)
	return e
}

// RemoveExpense drops the expense with the given id and reports whether it existed.
func (c *Client) RemoveExpense(id string) bool {
	for i, e := range c.Expenses {
		if e.ID == id {
			c.Expenses = append(c.Expenses[:i:i], c.Expenses[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Client) hasExpense(id string) bool {
	for _, e := range c.Expenses {
		if e.ID == id {
			return true
		}
	}
	return false
}

// AddStage inserts a timeline stage and keeps the timeline ordered by start date.
func (c *Client) AddStage(s TimelineStage, now time.Time) TimelineStage {
	if s.ID == "" || c.hasStage(s.ID) {
		s.ID = NextTimestampID(now, c.hasStage)
	}
	c.Timeline = append(c.Timeline, s)
	SortStages(c.Timeline)
	return s
}

// RemoveStage drops the stage with the given id and reports whether it existed.
func (c *Client) RemoveStage(id string) bool {
	for i, s := range c.Timeline {
		if s.ID == id {
			c.Timeline = append(c.Timeline[:i:i], c.Timeline[i+1:]...)
			return true
		}
	}
	return false
}

func (c *Client) hasStage(id string) bool {
	for _, s := range c.Timeline {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so callers can mutate sub-lists without aliasing.
func (c Client) Clone() Client {
	out := c
	if c.Expenses != nil {
		out.Expenses = append([]Expense(nil), c.Expenses...)
	}
	if c.Timeline != nil {
		out.Timeline = append([]TimelineStage(nil), c.Timeline...)
	}
	return out
}

// CoerceAmount maps NaN and infinities to zero.
func CoerceAmount(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
