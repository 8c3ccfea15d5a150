package types

// Filter agrupa los parámetros de filtrado y paginación de los listados.
type Filter struct {
	Search string                 `json:"search,omitempty"`
	Sort   map[string]string      `json:"sort,omitempty"`
	Filter map[string]interface{} `json:"filter,omitempty"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Page   int                    `json:"page"`
}

type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

func NewPagination(total uint64, page, limit int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + uint64(limit) - 1) / uint64(limit))
	}
	return Pagination{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
