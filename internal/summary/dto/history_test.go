package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name               string
		page, limit        int
		total              int64
		wantPages          int
		wantNext, wantPrev bool
	}{
		{"empty", 1, 20, 0, 0, false, false},
		{"single page", 1, 20, 20, 1, false, false},
		{"first of three", 1, 10, 25, 3, true, false},
		{"last of three", 3, 10, 25, 3, false, true},
		{"past the end", 4, 10, 25, 3, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantNext, p.HasNextPage)
			assert.Equal(t, tt.wantPrev, p.HasPrevPage)
			assert.Equal(t, tt.total, p.TotalItems)
			assert.Equal(t, tt.limit, p.ItemsPerPage)
		})
	}
}
