package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// GetPaginationParams extracts page/limit with the catalog defaults (10, capped at 50).
func GetPaginationParams(c echo.Context) PaginationParams {
	return GetPaginationParamsWithDefaults(c, DefaultPageSize, MaxPageSize)
}

// GetPaginationParamsWithDefaults extracts page/limit, falling back to def and clamping to max.
func GetPaginationParamsWithDefaults(c echo.Context, def, max int) PaginationParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("limit"))
	return NewPaginationParams(page, pageSize, def, max)
}

func NewPaginationParams(page, pageSize, def, max int) PaginationParams {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = def
	}
	if pageSize > max {
		pageSize = max
	}
	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}

// SlicePage returns the [offset, offset+limit) window of n items as bounds.
func SlicePage(n, offset, limit int) (int, int) {
	if offset >= n {
		return n, n
	}
	end := offset + limit
	if end > n {
		end = n
	}
	return offset, end
}
