package v1

import (
	"time"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type URIID struct {
	ID uint `uri:"id" binding:"required" minimum:"1"` // ID of the resource
}

type URIMonth struct {
	Month time.Time `uri:"month" time_format:"2006-01" time_utc:"1" example:"2024-08" binding:"required"` // Year and month in YYYY-MM format
}

type QueryMonth struct {
	Month time.Time `form:"month" time_format:"2006-01" time_utc:"1" example:"2024-08"` // Year and month in YYYY-MM format
}

type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}

// stringFilters applies a LIKE filter for all string fields set in the
// query parameters.
func stringFilters(db, q *gorm.DB, setFields []string, description, note, search string) *gorm.DB {
	if slices.Contains(setFields, "Description") {
		q = q.Where("description LIKE ?", "%"+description+"%")
	}

	if slices.Contains(setFields, "Note") {
		q = q.Where("note LIKE ?", "%"+note+"%")
	}

	if search != "" {
		q = q.Where(
			db.Where("description LIKE ?", "%"+search+"%").
				Or("note LIKE ?", "%"+search+"%"),
		)
	}

	return q
}
