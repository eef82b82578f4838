package models

// Post is a feed item. Content may carry raw markup.
type Post struct {
	Username string `json:"username"`
	Handle   string `json:"handle"`
	Date     string `json:"date"`
	Content  string `json:"content"`
}
