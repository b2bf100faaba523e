package types

// PageParams is decoded from the query string of list endpoints.
type PageParams struct {
	Page    uint64 `form:"page"`
	PerPage uint64 `form:"per_page"`
}

const (
	DefaultPerPage uint64 = 20
	MaxPerPage     uint64 = 100
)

// Normalize applies defaults and caps per_page so a single request
// cannot ask for an unbounded result set.
func (p *PageParams) Normalize() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PerPage == 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
}

func (p PageParams) Limit() uint64 {
	return p.PerPage
}

func (p PageParams) Offset() uint64 {
	return (p.Page - 1) * p.PerPage
}
