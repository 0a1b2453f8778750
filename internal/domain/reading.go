package domain

import "time"

// DefaultUnit is the unit assigned to readings created without one.
const DefaultUnit = "kWh"

// Reading is a single cumulative meter reading taken at a point in time.
type Reading struct {
	ReadingDate time.Time
	Cumulative  float64
	Unit        string
}

// MonthEndEstimate is the estimated cumulative value on the last calendar day of
// the month labelled FormattedMonth. Estimates are computed on demand and never stored.
type MonthEndEstimate struct {
	Cumulative     float64
	FormattedMonth string
}

// UsageRecord is the consumption during one calendar month.
type UsageRecord struct {
	Cumulative  float64
	ReadingDate string // month label, e.g. "Mar-2017"
	Unit        string
}
