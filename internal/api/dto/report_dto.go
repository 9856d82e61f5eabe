package dto

import "time"

// CreateReportRequest payload for filing a report.
type CreateReportRequest struct {
	CitizenID   int64   `json:"citizen_id"`
	Title       string  `json:"title" validate:"required,max=255"`
	Location    string  `json:"location" validate:"required,max=255"`
	City        string  `json:"city" validate:"required,max=100"`
	Description string  `json:"description" validate:"required"`
	Comment     *string `json:"comment"`
	Category    string  `json:"category" validate:"required,oneof=police hospital admin"`
	Severity    string  `json:"severity" validate:"omitempty,oneof=minor major urgent"`
	Status      string  `json:"status" validate:"omitempty,oneof=new in_progress resolved"`
}

// UpdateReportRequest partial update; absent fields are left unchanged.
type UpdateReportRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Location    *string `json:"location" validate:"omitempty,max=255"`
	City        *string `json:"city" validate:"omitempty,max=100"`
	Description *string `json:"description"`
	Comment     *string `json:"comment"`
	Category    *string `json:"category" validate:"omitempty,oneof=police hospital admin"`
	Severity    *string `json:"severity" validate:"omitempty,oneof=minor major urgent"`
	Status      *string `json:"status" validate:"omitempty,oneof=new in_progress resolved"`
}

// ReportResponse API view of a report.
type ReportResponse struct {
	ID          int64     `json:"id"`
	CitizenID   int64     `json:"citizen_id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	City        string    `json:"city"`
	Description string    `json:"description"`
	Comment     *string   `json:"comment"`
	Category    string    `json:"category"`
	Severity    string    `json:"severity"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
