package domain

// Video is a catalog record. ID is assigned by the store and never changes.
type Video struct {
	ID        int64  `json:"videoId"`
	Title     string `json:"title"`
	Director  string `json:"director"`
	Genre     string `json:"genre"`
	Available bool   `json:"isAvailable"`
}
