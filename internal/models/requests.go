package models

// FieldUpdateRequest is the body of a single-field update
type FieldUpdateRequest struct {
	Value any `json:"value"`
}

// FavoriteStatus reports whether a tool is a favorite
type FavoriteStatus struct {
	ToolID   string `json:"toolId"`
	Favorite bool   `json:"favorite"`
}

// FavoritesList wraps the favorite tool IDs
type FavoritesList struct {
	Favorites []string `json:"favorites"`
}

// HistoryList wraps history entries
type HistoryList struct {
	History []HistoryEntry `json:"history"`
	Count   int            `json:"count"`
}
