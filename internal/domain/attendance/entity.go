package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of a day's attendance record.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half_day"
	StatusLate    Status = "late"
	StatusHoliday Status = "holiday"
	StatusLeave   Status = "leave"
)

// AllStatuses returns the valid attendance statuses.
func AllStatuses() []Status {
	return []Status{StatusPresent, StatusAbsent, StatusHalfDay, StatusLate, StatusHoliday, StatusLeave}
}

// ValidStatus reports whether s is a known attendance status.
func ValidStatus(s Status) bool {
	for _, known := range AllStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// Attendance is one day worked (or not) by one employee. The store enforces
// at most one row per (employee_id, date).
type Attendance struct {
	ID               string
	EmployeeID       string
	Date             time.Time // day granularity, midnight local
	CheckIn          *time.Time
	CheckOut         *time.Time
	WorkedHours      decimal.Decimal
	Status           Status
	Notes            *string
	CheckInLocation  *string
	CheckOutLocation *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined for responses
	EmployeeName *string
}

// ComputeWorkedHours derives the hours between CheckIn and CheckOut, rounded
// to two decimal places. Called on every write that touches either stamp.
func (a *Attendance) ComputeWorkedHours() {
	if a.CheckIn == nil || a.CheckOut == nil {
		a.WorkedHours = decimal.Zero
		return
	}
	hours := a.CheckOut.Sub(*a.CheckIn).Hours()
	if hours < 0 {
		hours = 0
	}
	a.WorkedHours = decimal.NewFromFloat(hours).Round(2)
}
