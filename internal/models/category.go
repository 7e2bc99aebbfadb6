package models

// Category groups topics and maintains several ordered indices over them.
type Category struct {
	CID        string `json:"cid"`
	Name       string `json:"name"`
	TopicCount int    `json:"topic_count"`

	// RecentTID points at the most recently active topic in the category.
	RecentTID string `json:"recent_tid,omitempty"`
}
