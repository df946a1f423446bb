package models

// StatusSnapshot is the payload of GET /api/status.
type StatusSnapshot struct {
	CPU     float64      `json:"cpu"`
	RAM     float64      `json:"ram"`
	Storage StorageUsage `json:"storage"`
	Uptime  string       `json:"uptime"`
}
