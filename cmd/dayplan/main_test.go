package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectDateArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"dayplan"},
			want: []string{"dayplan"},
		},
		{
			name: "date first token",
			in:   []string{"dayplan", "2025-06-01"},
			want: []string{"dayplan", "show", "--date", "2025-06-01"},
		},
		{
			name: "date after value flag",
			in:   []string{"dayplan", "--server", "http://localhost:5050", "2025-06-01"},
			want: []string{"dayplan", "--server", "http://localhost:5050", "show", "--date", "2025-06-01"},
		},
		{
			name: "date after flag=value and bool flag",
			in:   []string{"dayplan", "--format=json", "--pretty", "2025-06-01"},
			want: []string{"dayplan", "--format=json", "--pretty", "show", "--date", "2025-06-01"},
		},
		{
			name: "subcommand untouched",
			in:   []string{"dayplan", "water", "add", "100"},
			want: []string{"dayplan", "water", "add", "100"},
		},
		{
			name: "not a date",
			in:   []string{"dayplan", "2025-13-01"},
			want: []string{"dayplan", "2025-13-01"},
		},
		{
			name: "after double dash untouched",
			in:   []string{"dayplan", "--", "2025-06-01"},
			want: []string{"dayplan", "--", "2025-06-01"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := rewriteDirectDateArgs(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}
