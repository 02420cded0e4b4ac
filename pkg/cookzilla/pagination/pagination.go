package pagination

import "gorm.io/gorm"

// Page is one page of results plus the metadata templates and clients
// need to render pagers.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Paginate runs the given query twice, once for the total count and
// once for the requested page. Out-of-range pages return an empty item
// set, not an error. The query must already have its model and ordering
// applied.
func Paginate[T any](query *gorm.DB, page, perPage int) (Page[T], error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	result := Page[T]{Page: page, PerPage: perPage, Items: []T{}}

	query = query.Session(&gorm.Session{})
	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}
	result.TotalPages = int((result.Total + int64(perPage) - 1) / int64(perPage))

	err := query.Offset((page - 1) * perPage).Limit(perPage).Find(&result.Items).Error
	return result, err
}
