package controller

import (
	"strings"
	"testing"
)

func TestBuildSessionTitle(t *testing.T) {
	tests := []struct {
		name         string
		learningGoal string
		skills       []string
		wantPrefix   string
	}{
		{"from learning goal", "Learn Go!", nil, "Learn_Go_"},
		{"from first skill", "", []string{"system design", "sql"}, "system_design_"},
		{"empty falls back", "", nil, "Session_"},
		{"special characters stripped", "Go & Rust?", nil, "Go__Rust_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title := buildSessionTitle(tt.learningGoal, tt.skills)
			if !strings.HasPrefix(title, tt.wantPrefix) {
				t.Errorf("expected prefix %q, got %q", tt.wantPrefix, title)
			}
		})
	}

	// 相同输入生成的标题因时间戳和随机后缀而互不相同
	a := buildSessionTitle("goal", nil)
	b := buildSessionTitle("goal", nil)
	if a == b {
		t.Errorf("expected unique titles, got %q twice", a)
	}
}
