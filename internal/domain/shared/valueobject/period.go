package valueobject

import (
	"fmt"
	"time"
)

// Months holds the canonical Spanish month names used for billing periods.
// Period labels are stored exactly as shown here.
var Months = []string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// Period is a value object identifying a billing period (month label + year)
type Period struct {
	Month string `json:"mes"`
	Year  int    `json:"anio"`
}

// NewPeriod creates a Period, validating the month label and year range
func NewPeriod(month string, year int) (Period, error) {
	if !IsValidMonth(month) {
		return Period{}, fmt.Errorf("invalid month name: %q", month)
	}
	if year < 2020 || year > 2100 {
		return Period{}, fmt.Errorf("year out of range: %d", year)
	}
	return Period{Month: month, Year: year}, nil
}

// CurrentPeriod returns the period for the given time
func CurrentPeriod(t time.Time) Period {
	return Period{Month: Months[t.Month()-1], Year: t.Year()}
}

// IsValidMonth reports whether name is one of the canonical month labels
func IsValidMonth(name string) bool {
	for _, m := range Months {
		if m == name {
			return true
		}
	}
	return false
}

// Equals returns true if both periods identify the same month and year
func (p Period) Equals(other Period) bool {
	return p.Month == other.Month && p.Year == other.Year
}

// IsZero returns true if the period is unset
func (p Period) IsZero() bool {
	return p.Month == "" && p.Year == 0
}

// String returns a label such as "Enero 2024"
func (p Period) String() string {
	return fmt.Sprintf("%s %d", p.Month, p.Year)
}
