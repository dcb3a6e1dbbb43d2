package httputil

import (
	"net/http/httptest"
	"testing"
)

func TestParseIntParam(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultVal int
		expected   int
	}{
		{name: "valid integer", input: "42", defaultVal: 0, expected: 42},
		{name: "empty string uses default", input: "", defaultVal: 100, expected: 100},
		{name: "invalid uses default", input: "abc", defaultVal: 7, expected: 7},
		{name: "negative passes through", input: "-3", defaultVal: 0, expected: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseIntParam(tt.input, tt.defaultVal)
			if got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestParseBoolParam(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultVal bool
		expected   bool
	}{
		{name: "true", input: "true", defaultVal: false, expected: true},
		{name: "numeric true", input: "1", defaultVal: false, expected: true},
		{name: "false", input: "false", defaultVal: true, expected: false},
		{name: "empty uses default", input: "", defaultVal: true, expected: true},
		{name: "garbage uses default", input: "maybe", defaultVal: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseBoolParam(tt.input, tt.defaultVal)
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestParsePaging(t *testing.T) {
	tests := []struct {
		name       string
		url        string
		wantOffset int
		wantLimit  int
		wantErr    bool
	}{
		{name: "defaults", url: "/collect", wantOffset: 0, wantLimit: 1000},
		{name: "explicit window", url: "/collect?offset=200&limit=50", wantOffset: 200, wantLimit: 50},
		{name: "negative offset rejected", url: "/collect?offset=-1", wantErr: true},
		{name: "zero limit rejected", url: "/collect?limit=0", wantErr: true},
		{name: "non-numeric limit rejected", url: "/collect?limit=abc", wantErr: true},
		{name: "non-numeric offset rejected", url: "/collect?offset=1.5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			p, err := ParsePaging(r, 1000)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Offset != tt.wantOffset {
				t.Errorf("expected offset %d, got %d", tt.wantOffset, p.Offset)
			}
			if p.Limit != tt.wantLimit {
				t.Errorf("expected limit %d, got %d", tt.wantLimit, p.Limit)
			}
		})
	}
}
