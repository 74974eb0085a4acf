package api

import (
	"net/url"
	"testing"
)

func TestRedirectTarget(t *testing.T) {
	frontend := "http://frontend.test"

	tests := []struct {
		name  string
		token string
		query url.Values
		want  string
	}{
		{"authenticated", "tok-abc", url.Values{}, frontend},
		{"authenticated ignores query", "tok-abc", url.Values{"code": {"x"}}, frontend},
		{"code present", "", url.Values{"code": {"x"}}, "/auth?code=x"},
		{"nothing", "", url.Values{}, "/auth"},
		{"extra params carried", "", url.Values{"code": {"x"}, "state": {"s1"}}, "/auth?code=x&state=s1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedirectTarget(frontend, tt.token, tt.query); got != tt.want {
				t.Errorf("RedirectTarget(%q, %v) = %q, want %q", tt.token, tt.query, got, tt.want)
			}
		})
	}
}
