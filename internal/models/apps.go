package models

// AppStorageEntry is one deployed app and the space it takes up.
type AppStorageEntry struct {
	Name    string  `json:"name"`
	Size    uint64  `json:"size"`
	Percent float64 `json:"percent"`
	// MTime is the newest file modification time under the app, in unix seconds.
	MTime float64 `json:"mtime"`
}

// AppsStorage is the payload of GET /api/apps-storage. Apps are ordered by name.
type AppsStorage struct {
	Total uint64            `json:"total"`
	Apps  []AppStorageEntry `json:"apps"`
}
