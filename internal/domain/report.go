package domain

import "time"

// Category routes a report to the authority in charge.
type Category string

const (
	CategoryPolice   Category = "police"
	CategoryHospital Category = "hospital"
	CategoryAdmin    Category = "admin"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryPolice, CategoryHospital, CategoryAdmin:
		return true
	}
	return false
}

// Severity ranks how serious a report is.
type Severity string

const (
	SeverityMinor  Severity = "minor"
	SeverityMajor  Severity = "major"
	SeverityUrgent Severity = "urgent"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityMinor, SeverityMajor, SeverityUrgent:
		return true
	}
	return false
}

// ReportStatus tracks triage progress.
type ReportStatus string

const (
	ReportStatusNew        ReportStatus = "new"
	ReportStatusInProgress ReportStatus = "in_progress"
	ReportStatusResolved   ReportStatus = "resolved"
)

// Valid reports whether s is a known status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusNew, ReportStatusInProgress, ReportStatusResolved:
		return true
	}
	return false
}

// Report is a citizen-filed incident (signalement).
type Report struct {
	ID          int64
	CitizenID   int64
	Title       string
	Location    string
	City        string
	Description string
	Comment     *string
	Category    Category
	Severity    Severity
	Status      ReportStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReportChanges lists the fields of a partial update. Nil means unchanged.
type ReportChanges struct {
	Title       *string
	Location    *string
	City        *string
	Description *string
	Comment     *string
	Category    *Category
	Severity    *Severity
	Status      *ReportStatus
}

// Empty reports whether no field is set.
func (c ReportChanges) Empty() bool {
	return c.Title == nil && c.Location == nil && c.City == nil && c.Description == nil &&
		c.Comment == nil && c.Category == nil && c.Severity == nil && c.Status == nil
}
