package models

// Topic is a discussion thread owned by a single category.
//
// Timestamps are unix milliseconds, matching the scores stored in the
// category index sets.
type Topic struct {
	TID          string   `json:"tid"`
	CID          string   `json:"cid"`
	UID          string   `json:"uid"`
	Title        string   `json:"title"`
	Timestamp    int64    `json:"timestamp"`
	LastPostTime int64    `json:"lastposttime"`
	PostCount    int      `json:"postcount"`
	Upvotes      int      `json:"upvotes"`
	Downvotes    int      `json:"downvotes"`
	Deleted      bool     `json:"deleted"`
	Locked       bool     `json:"locked"`
	Pinned       bool     `json:"pinned"`
	Scheduled    bool     `json:"scheduled"`
	PinExpiry    int64    `json:"pinExpiry,omitempty"`
	Tags         []string `json:"tags,omitempty"`

	// OldCID remembers the previous category after a move, for audit
	// and display purposes.
	OldCID string `json:"oldCid,omitempty"`

	DeleterUID       string `json:"deleterUid,omitempty"`
	DeletedTimestamp int64  `json:"deletedTimestamp,omitempty"`
}

// Votes returns the topic's net vote score.
func (t *Topic) Votes() int {
	return t.Upvotes - t.Downvotes
}
