package services

import (
	"math"
	"strings"

	"github.com/ahmetcoskunkizilkaya/jobboard/internal/repository"
)

const (
	DefaultPageSize = 10
	AdminPageSize   = 20
	MaxPageSize     = 100

	// MaxPage keeps (page-1)*limit inside an int for any allowed limit.
	MaxPage = math.MaxInt / MaxPageSize
)

// pageOf clamps user-supplied paging to sane bounds.
func pageOf(page, limit, fallback int) repository.Page {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = fallback
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return repository.Page{Page: page, Limit: limit}
}

// sortOf defaults to newest first. Field names are whitelisted by the store.
func sortOf(by, order string) repository.Sort {
	if by == "" {
		by = "createdAt"
	}
	return repository.Sort{Field: by, Desc: !strings.EqualFold(order, "asc")}
}

func boolPtr(b bool) *bool { return &b }
