package response

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
	HasMore    bool  `json:"has_more"`
	From       int   `json:"from"`
	To         int   `json:"to"`
}

// NewPagination fills the derived fields for a page of returned items.
func NewPagination(page, pageSize int, totalItems int64, returned int) *Pagination {
	p := &Pagination{Page: page, PageSize: pageSize, TotalItems: totalItems}
	if pageSize > 0 {
		p.TotalPages = (totalItems + int64(pageSize) - 1) / int64(pageSize)
	}
	if returned > 0 {
		p.From = (page-1)*pageSize + 1
		p.To = p.From + returned - 1
	}
	p.HasMore = int64(page) < p.TotalPages
	return p
}
