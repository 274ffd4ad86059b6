package model

import "time"

// ReportRequest is a report form submission and the artifact it produced.
type ReportRequest struct {
	ID                 string    `json:"id"`
	CompanyName        string    `json:"company_name,omitempty"`
	ContactName        string    `json:"contact_name,omitempty"`
	Email              string    `json:"email"`
	Industry           string    `json:"industry"`
	Region             string    `json:"region,omitempty"`
	Kind               string    `json:"kind"` // "savings" | "roi"
	Employees          int       `json:"employees"`
	TotalAnnualSavings float64   `json:"total_annual_savings"`
	ROIMultiple        float64   `json:"roi_multiple"`
	Outcome            string    `json:"outcome"` // "rendered" | "fallback"
	Filename           string    `json:"filename"`
	ContentType        string    `json:"content_type"`
	ArtifactKey        string    `json:"-"` // cleared once the artifact is purged
	ExpiresAt          time.Time `json:"expires_at"`
	CreatedAt          time.Time `json:"created_at"`
}

// ReportRequestListOptions carries filter and pagination parameters for the
// admin listing.
type ReportRequestListOptions struct {
	// Industry filters by industry key; empty returns all.
	Industry string
	Limit    int
	Offset   int
}
