package handler

import "testing"

func TestPageCache(t *testing.T) {
	for _, page := range []string{"home.html", "dashboard.html", "not_found.html"} {
		if _, ok := pageCache[page]; !ok {
			t.Errorf("page %s not parsed", page)
		}
	}
}

func TestBackTo(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		referer string
		want    string
	}{
		{"", "/"},
		{"http://example.com/", "/"},
		{"http://example.com/dashboard", "/dashboard"},
		{"http://other.example/dashboard", "/"},
		{"::bad", "/"},
	}
	for _, tt := range tests {
		w := env.do("POST", "/theme", "x=1", withHeader("Referer", tt.referer))
		if got := w.Header().Get("Location"); got != tt.want {
			t.Errorf("Referer %q: Location = %q, want %q", tt.referer, got, tt.want)
		}
	}
}
