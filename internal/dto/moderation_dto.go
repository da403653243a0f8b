package dto

import "github.com/vetsasatyasrikar/Flinx-Market-Place/internal/models"

type CreateReportRequest struct {
	ListingID string `json:"listing_id"`
	Reason    string `json:"reason"`
}

type ReportListResponse struct {
	Reports []models.Report `json:"reports"`
	Total   int64           `json:"total"`
	Limit   int             `json:"limit"`
	Offset  int             `json:"offset"`
}

type AdminActionResponse struct {
	Success  bool   `json:"success"`
	ReportID string `json:"report_id"`
	Action   string `json:"action"`
	Target   string `json:"target"`
}
