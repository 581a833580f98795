package storage

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestGenerateArtifactPath(t *testing.T) {
	tests := []struct {
		name      string
		chart     string
		ext       string
		timestamp time.Time
		expected  string
	}{
		{
			name:      "standard date and time",
			chart:     "dartChart",
			ext:       ".json",
			timestamp: time.Date(2025, 9, 17, 14, 30, 45, 0, time.UTC),
			expected:  "2025/09/17/dartChart-2025-09-17-14-30-45.json",
		},
		{
			name:      "new year date",
			chart:     "usage",
			ext:       ".png",
			timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			expected:  "2025/01/01/usage-2025-01-01-00-00-00.png",
		},
		{
			name:      "leap year date",
			chart:     "speed",
			ext:       ".xlsx",
			timestamp: time.Date(2024, 2, 29, 12, 15, 30, 0, time.UTC),
			expected:  "2024/02/29/speed-2024-02-29-12-15-30.xlsx",
		},
		{
			name:      "extension without dot",
			chart:     "latency",
			ext:       "html",
			timestamp: time.Date(2025, 3, 5, 8, 7, 6, 0, time.UTC),
			expected:  "2025/03/05/latency-2025-03-05-08-07-06.html",
		},
		{
			name:      "unsafe name",
			chart:     "../etc/passwd",
			ext:       ".json",
			timestamp: time.Date(2030, 11, 22, 16, 45, 12, 0, time.UTC),
			expected:  "2030/11/22/etc-passwd-2030-11-22-16-45-12.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GenerateArtifactPath(tt.chart, tt.ext, tt.timestamp)
			if result != tt.expected {
				t.Errorf("GenerateArtifactPath() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"dartChart", "dartChart"},
		{"usage chart", "usage-chart"},
		{"  spaced  ", "spaced"},
		{"a/b\\c", "a-b-c"},
		{"...", "chart"},
		{"", "chart"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.expected {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestGetContentType(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"chart.json", "application/json"},
		{"page.html", "text/html"},
		{"notes.md", "text/markdown"},
		{"chart.PNG", "image/png"},
		{"data.xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{"readme.txt", "text/plain"},
		{"unknown.bin", "application/octet-stream"},
		{"noext", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := GetContentType(tt.filename); got != tt.expected {
				t.Errorf("GetContentType(%q) = %q, want %q", tt.filename, got, tt.expected)
			}
		})
	}
}

func TestStoreArtifactNeverOverwrites(t *testing.T) {
	client, err := NewLocalStorageClient(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	expected := []string{
		"2025/06/01/dartChart-2025-06-01-12-00-00.json",
		"2025/06/01/dartChart-2025-06-01-12-00-00-2.json",
		"2025/06/01/dartChart-2025-06-01-12-00-00-3.json",
	}
	for i, want := range expected {
		got, err := StoreArtifact(ctx, client, "dartChart", "json", []byte(fmt.Sprint(i)), ts)
		if err != nil {
			t.Fatalf("StoreArtifact #%d: %v", i, err)
		}
		if got != want {
			t.Errorf("StoreArtifact #%d = %q, expected %q", i, got, want)
		}
	}

	for i, p := range expected {
		data, err := client.GetFile(ctx, p)
		if err != nil {
			t.Fatalf("GetFile(%q): %v", p, err)
		}
		if string(data) != fmt.Sprint(i) {
			t.Errorf("GetFile(%q) = %q, expected %q", p, data, fmt.Sprint(i))
		}
	}
}
