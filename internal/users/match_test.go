package users

import (
	"errors"
	"testing"

	"github.com/spiffcs/rdm/internal/model"
)

var people = []model.User{
	{ID: 1, Login: "admin", FirstName: "Redmine", LastName: "Admin"},
	{ID: 2, Login: "jsmith", FirstName: "John", LastName: "Smith"},
	{ID: 3, Login: "jo", FirstName: "Jo", LastName: "Brand"},
	{ID: 4, Login: "mhansen", FirstName: "Maria", LastName: "Hansen"},
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    uint
		wantErr bool
	}{
		{"exact login", "jsmith", 2, false},
		{"exact login beats earlier partial", "jo", 3, false},
		{"exact full name", "maria hansen", 4, false},
		{"partial last name", "HANS", 4, false},
		{"partial first name", "joh", 2, false},
		{"first partial in order", "a", 1, false},
		{"surrounding whitespace", "  jsmith ", 2, false},
		{"no match", "nobody", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Match(tt.query, people)
			if tt.wantErr {
				var nf *NotFoundError
				if !errors.As(err, &nf) {
					t.Fatalf("expected *NotFoundError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Match() error: %v", err)
			}
			if got.ID != tt.want {
				t.Errorf("Match(%q) = user %d, want %d", tt.query, got.ID, tt.want)
			}
		})
	}
}

func TestFullName(t *testing.T) {
	tests := []struct {
		user model.User
		want string
	}{
		{model.User{FirstName: "Jane", LastName: "Doe"}, "Jane Doe"},
		{model.User{FirstName: "Jane"}, "Jane"},
		{model.User{LastName: "Doe"}, "Doe"},
	}
	for _, tt := range tests {
		if got := tt.user.FullName(); got != tt.want {
			t.Errorf("FullName() = %q, want %q", got, tt.want)
		}
	}
}
