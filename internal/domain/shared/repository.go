package shared

// Filter narrows a repository list query. A zero Page or PageSize
// disables pagination; Filters holds column/value equality constraints.
type Filter struct {
	Page     int
	PageSize int
	Search   string
	Filters  map[string]interface{}
}

// Offset converts the page number into a row offset.
func (f Filter) Offset() int {
	if f.Page <= 0 || f.PageSize <= 0 {
		return 0
	}
	return (f.Page - 1) * f.PageSize
}
