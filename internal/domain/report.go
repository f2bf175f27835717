package domain

import "time"

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusApproved ReportStatus = "approved"
	ReportStatusRejected ReportStatus = "rejected"
)

func (s ReportStatus) String() string {
	return string(s)
}

func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportStatusPending, ReportStatusApproved, ReportStatusRejected:
		return true
	default:
		return false
	}
}

// GarbageReport is a citizen-submitted report of garbage at a location,
// reviewed by municipal staff through the dashboard.
type GarbageReport struct {
	ID          int64        `json:"id"`
	Type        string       `json:"type"`
	Location    string       `json:"location"`
	Latitude    *float64     `json:"latitude,omitempty"`
	Longitude   *float64     `json:"longitude,omitempty"`
	Description string       `json:"description"`
	SubmittedBy string       `json:"submittedBy"`
	ImageName   string       `json:"image_filename,omitempty"`
	HasImage    bool         `json:"has_image"`
	Status      ReportStatus `json:"status"`
	Source      string       `json:"source,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// NewReport carries the submission payload into the repository. Image is
// optional and stored inline.
type NewReport struct {
	Location    string
	Latitude    *float64
	Longitude   *float64
	Description string
	SubmittedBy string
	ImageName   string
	ImageData   []byte
	Source      string
}

type DashboardStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}
