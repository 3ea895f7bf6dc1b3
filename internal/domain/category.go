package domain

// Category is one tab in the reader's headline view. The query is the
// search expression sent to the article source when the tab is opened
// in search mode; the id doubles as the top-headlines category code.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Query       string `json:"query"`
	Description string `json:"description,omitempty"`
}
