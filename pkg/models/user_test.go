package models

import "testing"

func TestUserFullName(t *testing.T) {
	tests := []struct {
		first, last, username, want string
	}{
		{"Ada", "Lovelace", "ada", "Ada Lovelace"},
		{"Ada", "", "ada", "Ada"},
		{"", "Lovelace", "ada", "Lovelace"},
		{"", "", "ada", "ada"},
	}
	for _, tt := range tests {
		u := &User{FirstName: tt.first, LastName: tt.last, Username: tt.username}
		if got := u.FullName(); got != tt.want {
			t.Errorf("FullName() = %q, want %q", got, tt.want)
		}
	}
}
