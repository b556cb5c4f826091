package views

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMeta(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Meta
	}{
		{
			name: "plain text",
			text: "buy milk",
			want: Meta{Body: "buy milk"},
		},
		{
			name: "all markers",
			text: "#work ship release !1 >2024-05-01",
			want: Meta{Body: "ship release", Tag: "work", Priority: 1, Due: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		},
		{
			name: "first of each kind wins",
			text: "#a #b call !2 !3",
			want: Meta{Body: "#b call !3", Tag: "a", Priority: 2},
		},
		{
			name: "out of range priority stays in body",
			text: "rest !4 !",
			want: Meta{Body: "rest !4 !"},
		},
		{
			name: "invalid date stays in body",
			text: "pay rent >2024-13-40 >soon",
			want: Meta{Body: "pay rent >2024-13-40 >soon"},
		},
		{
			name: "only markers keeps raw text",
			text: " #home !3 ",
			want: Meta{Body: "#home !3", Tag: "home", Priority: 3},
		},
		{
			name: "lone hash",
			text: "# heading",
			want: Meta{Body: "# heading"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseMeta(tt.text))
		})
	}
}

func TestMetaOverdue(t *testing.T) {
	now := time.Date(2024, 5, 2, 18, 0, 0, 0, time.Local)

	assert.True(t, ParseMeta("x >2024-05-01").Overdue(now))
	assert.False(t, ParseMeta("x >2024-05-02").Overdue(now))
	assert.False(t, ParseMeta("x >2024-06-01").Overdue(now))
	assert.False(t, ParseMeta("x").Overdue(now))
}
