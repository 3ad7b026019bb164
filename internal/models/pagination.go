package models

type PaginatedResponse struct {
	Data  any `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}

func NewPaginatedResponse(data any, total, page, limit int) *PaginatedResponse {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}

	return &PaginatedResponse{
		Data:  data,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}
