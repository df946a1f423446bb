package models

// StorageUsage describes how much of the panel's filesystem the app root
// occupies. Used and Total are bytes.
type StorageUsage struct {
	Used    uint64  `json:"used"`
	Total   uint64  `json:"total"`
	Percent float64 `json:"percent"`
}
