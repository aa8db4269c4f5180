package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"defaults applied", 0, 0, 1, 20, 0},
		{"negative page", -3, 10, 1, 10, 0},
		{"limit capped", 2, 500, 2, 100, 100},
		{"normal", 3, 25, 3, 25, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.page, tt.limit)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit || p.Offset != tt.wantOffset {
				t.Errorf("New(%d, %d) = %+v, want page=%d limit=%d offset=%d",
					tt.page, tt.limit, p, tt.wantPage, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		query     string
		wantPage  int
		wantLimit int
	}{
		{"", 1, 20},
		{"page=2&limit=50", 2, 50},
		{"page=-1&limit=0", 1, 20},
		{"page=abc&limit=xyz", 1, 20},
		{"limit=1000", 1, 100},
	}

	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+tt.query, nil)

		p := Parse(c)
		if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
			t.Errorf("Parse(%q) = %+v, want page=%d limit=%d", tt.query, p, tt.wantPage, tt.wantLimit)
		}
	}
}
