package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageRequest(t *testing.T) {
	tests := []struct {
		name          string
		page, limit   int
		maxLimit      int
		expectedPage  int
		expectedLimit int
	}{
		{"valid parameters", 2, 20, 100, 2, 20},
		{"zero page clamps to 1", 0, 10, 100, 1, 10},
		{"negative page clamps to 1", -3, 10, 100, 1, 10},
		{"zero limit falls back to default", 1, 0, 100, 1, 10},
		{"negative limit falls back to default", 1, -5, 100, 1, 10},
		{"limit over max is capped", 1, 500, 100, 1, 100},
		{"custom max", 1, 60, 50, 1, 50},
		{"zero max uses default max", 1, 500, 0, 1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPageRequest(tt.page, tt.limit, tt.maxLimit)
			assert.Equal(t, tt.expectedPage, p.Page)
			assert.Equal(t, tt.expectedLimit, p.Limit)
		})
	}
}

func TestParsePageRequest(t *testing.T) {
	tests := []struct {
		name          string
		page, limit   string
		expectedPage  int
		expectedLimit int
	}{
		{"absent values use defaults", "", "", 1, 10},
		{"numeric values", "3", "25", 3, 25},
		{"non-numeric page", "abc", "5", 1, 5},
		{"non-numeric limit", "2", "many", 2, 10},
		{"zero page", "0", "10", 1, 10},
		{"trailing text after digits", "2abc", "15items", 2, 15},
		{"surrounding spaces", " 4 ", " 20", 4, 20},
		{"sign only", "-", "+", 1, 10},
		{"negative page", "-2", "5", 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePageRequest(tt.page, tt.limit, DefaultMaxLimit)
			assert.Equal(t, tt.expectedPage, p.Page)
			assert.Equal(t, tt.expectedLimit, p.Limit)
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, PageRequest{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 7, PageRequest{Page: 2, Limit: 7}.Offset())
}
