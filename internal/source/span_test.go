package source

import (
	"testing"
)

func TestSpan_ShiftLeft(t *testing.T) {
	tests := []struct {
		name     string
		span     Span
		shift    uint32
		expected Span
	}{
		{
			name:     "shift normal span left by 5",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    5,
			expected: Span{File: 1, Start: 5, End: 15},
		},
		{
			name:     "shift equals start - boundary case",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    10,
			expected: Span{File: 1, Start: 0, End: 10},
		},
		{
			name:     "shift larger than start - returns original",
			span:     Span{File: 1, Start: 10, End: 20},
			shift:    15,
			expected: Span{File: 1, Start: 10, End: 20},
		},
		{
			name:     "shift zero-length span",
			span:     Span{File: 1, Start: 10, End: 10},
			shift:    3,
			expected: Span{File: 1, Start: 7, End: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.span.ShiftLeft(tt.shift); got != tt.expected {
				t.Errorf("ShiftLeft(%d) = %v, want %v", tt.shift, got, tt.expected)
			}
		})
	}
}

func TestSpan_Overlaps(t *testing.T) {
	a := Span{File: 0, Start: 4, End: 7}
	tests := []struct {
		other Span
		want  bool
	}{
		{Span{File: 0, Start: 7, End: 10}, false}, // adjacent
		{Span{File: 0, Start: 1, End: 4}, false},
		{Span{File: 0, Start: 6, End: 8}, true},
		{Span{File: 0, Start: 5, End: 6}, true},
		{Span{File: 1, Start: 4, End: 7}, false},
	}
	for _, tt := range tests {
		if got := a.Overlaps(tt.other); got != tt.want {
			t.Errorf("%v.Overlaps(%v) = %v, want %v", a, tt.other, got, tt.want)
		}
	}
	if !a.Contains(Span{File: 0, Start: 5, End: 7}) || a.Contains(Span{File: 0, Start: 5, End: 8}) {
		t.Error("Contains mismatch")
	}
}
