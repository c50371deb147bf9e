package store

import (
	"strconv"
	"strings"
)

// Page defaults shared by the assignment and review listings.
const (
	DefaultPage     = 1
	DefaultLimit    = 10
	DefaultMaxLimit = 100
)

// PageRequest is a 1-based page number and a page size.
type PageRequest struct {
	Page  int
	Limit int
}

// NewPageRequest returns a page request with the listing rules applied:
// page < 1 becomes 1, limit < 1 becomes DefaultLimit, and limit is capped
// at maxLimit (DefaultMaxLimit when maxLimit < 1).
func NewPageRequest(page, limit, maxLimit int) PageRequest {
	if maxLimit < 1 {
		maxLimit = DefaultMaxLimit
	}
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return PageRequest{Page: page, Limit: limit}
}

// ParsePageRequest builds a page request from raw query values.
// Missing or non-numeric values fall back to the defaults.
func ParsePageRequest(page, limit string, maxLimit int) PageRequest {
	return NewPageRequest(parseIntOr(page, DefaultPage), parseIntOr(limit, DefaultLimit), maxLimit)
}

// Normalize re-applies the page rules, for requests built by hand.
func (p PageRequest) Normalize(maxLimit int) PageRequest {
	return NewPageRequest(p.Page, p.Limit, maxLimit)
}

// Offset returns the number of rows skipped before this page.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// PageMeta describes a returned page.
// Total counts the rows matching the filter before any join post-filtering,
// so it may be larger than the number of rows actually returned.
type PageMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// PageResult is one page of a listing.
type PageResult[T any] struct {
	Items []T      `json:"items"`
	Meta  PageMeta `json:"meta"`
}

// parseIntOr reads the leading integer of s, ignoring surrounding spaces and
// any trailing text ("2abc" is 2). It returns fallback when s has no digits.
func parseIntOr(s string, fallback int) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return fallback
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return fallback
	}
	return n
}
