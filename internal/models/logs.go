package models

// LogBlob is the payload of GET /api/logs.
type LogBlob struct {
	Logs string `json:"logs"`
}

// ActionResult is returned by the POST action endpoints.
type ActionResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
