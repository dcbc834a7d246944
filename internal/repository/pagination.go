package repository

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageRequest is a clamped page/size pair for list queries.
type PageRequest struct {
	Page     int
	PageSize int
}

func (p PageRequest) normalized() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

func (p PageRequest) Limit() int {
	return p.normalized().PageSize
}

func (p PageRequest) Offset() int {
	n := p.normalized()
	return (n.Page - 1) * n.PageSize
}
