package domain

// PageCursor is the pagination metadata returned with a result page.
// HasNextPage only describes the page it was returned with.
type PageCursor struct {
	CurrentPage int  `json:"currentPage"`
	HasNextPage bool `json:"hasNextPage"`
}

// NextPage returns the page that follows c.
func (c PageCursor) NextPage() int {
	if c.CurrentPage < 1 {
		return 1
	}
	return c.CurrentPage + 1
}

// Page is one decoded result page.
type Page[T any] struct {
	Items  []T
	Cursor PageCursor
}
