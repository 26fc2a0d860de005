package store

import (
	"strings"

	"gorm.io/gorm"
)

// MaxListLimit caps the page size of listing queries
const MaxListLimit = 500

// ListParams contains parameters for user listing queries
type ListParams struct {
	Search string // Search keyword, matched case-insensitively
	Limit  int    // Maximum number of rows; 0 means MaxListLimit
	Offset int    // Number of rows to skip
}

// NewListParams creates ListParams with normalized bounds
func NewListParams(search string, limit, offset int) ListParams {
	// Default to the maximum page size if unset or invalid
	if limit < 1 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	return ListParams{
		Search: search,
		Limit:  limit,
		Offset: offset,
	}
}

// paginate applies limit and offset to a query
func (p ListParams) paginate(db *gorm.DB) *gorm.DB {
	p = NewListParams(p.Search, p.Limit, p.Offset)
	return db.Limit(p.Limit).Offset(p.Offset)
}

// escapeLike escapes LIKE wildcards in a user supplied search term
func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
