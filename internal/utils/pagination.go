package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamdesk-api/internal/constants"
)

// PageQuery is the window of a listing a client asked for. Pages start at 1.
type PageQuery struct {
	Page  int
	Limit int
}

// PageMeta describes the returned window next to the listing.
type PageMeta struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"hasMore"`
}

// ParsePageQuery reads ?page= and ?limit=. Garbage falls back to the defaults
// and a limit above the maximum is capped.
func ParsePageQuery(c *gin.Context) PageQuery {
	return PageQuery{
		Page:  queryInt(c, "page", 1),
		Limit: queryInt(c, "limit", constants.DefaultPageSize),
	}.Normalize()
}

func queryInt(c *gin.Context, key string, fallback int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return n
}

// Normalize clamps the query into the accepted range.
func (q PageQuery) Normalize() PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.Limit < constants.MinPageSize:
		q.Limit = constants.DefaultPageSize
	case q.Limit > constants.MaxPageSize:
		q.Limit = constants.MaxPageSize
	}
	return q
}

func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

func (q PageQuery) Meta(total int64) PageMeta {
	return PageMeta{
		Page:    q.Page,
		Limit:   q.Limit,
		Total:   total,
		HasMore: int64(q.Offset()+q.Limit) < total,
	}
}
