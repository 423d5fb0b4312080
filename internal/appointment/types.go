package appointment

import (
	"sync"
	"time"
)

// Rule is the recurrence rule attached to an appointment.
type Rule string

const (
	RuleNone    Rule = "none"
	RuleDaily   Rule = "daily"
	RuleWeekly  Rule = "weekly"
	RuleMonthly Rule = "monthly"
)

// NormalizeRule maps unknown rule strings to RuleNone. An unrecognized rule
// never causes expansion and never surfaces as an error.
func NormalizeRule(s string) Rule {
	switch Rule(s) {
	case RuleDaily, RuleWeekly, RuleMonthly:
		return Rule(s)
	default:
		return RuleNone
	}
}

// Appointment is a single scheduled entry. Recurring appointments are stored
// as multiple records sharing one ID and rule across forward-projected dates;
// each record keeps its own independent Views counter.
type Appointment struct {
	ID          int64  `json:"id"`
	Time        string `json:"time"` // wall-clock "HH:MM", no timezone
	Description string `json:"description"`
	Views       int    `json:"views"`
	Recurrence  Rule   `json:"recurrenceRule,omitempty"`
}

var (
	idMu     sync.Mutex
	lastID   int64
	idSource = func() int64 { return time.Now().UnixMilli() }
)

// NewID derives an identifier from the creation time, bumped monotonically so
// rapid creations within the same millisecond stay unique.
func NewID() int64 {
	idMu.Lock()
	defer idMu.Unlock()

	id := idSource()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}
