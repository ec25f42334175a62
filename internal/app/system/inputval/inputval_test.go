package inputval

import "testing"

type groupForm struct {
	Title      string `validate:"required,max=200" label:"Title"`
	MaxMembers int    `validate:"gte=2,lte=100" label:"Max members"`
}

func TestValidate_OK(t *testing.T) {
	res := Validate(groupForm{Title: "Linear Algebra Crew", MaxMembers: 8})
	if res.HasErrors() {
		t.Fatalf("expected no errors, got %v", res.All())
	}
	if res.First() != "" {
		t.Errorf("First on valid result: got %q, want empty", res.First())
	}
}

func TestValidate_RequiredUsesLabel(t *testing.T) {
	res := Validate(groupForm{Title: "", MaxMembers: 8})
	if !res.HasErrors() {
		t.Fatal("expected errors for empty title")
	}
	want := "Title is required."
	if res.First() != want {
		t.Errorf("First: got %q, want %q", res.First(), want)
	}
}

func TestValidate_RangeMessages(t *testing.T) {
	tests := []struct {
		name string
		in   groupForm
		want string
	}{
		{"too small", groupForm{Title: "x", MaxMembers: 1}, "Max members must be 2 or more."},
		{"too large", groupForm{Title: "x", MaxMembers: 500}, "Max members must be 100 or less."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(tt.in)
			if !res.HasErrors() {
				t.Fatal("expected errors")
			}
			if res.First() != tt.want {
				t.Errorf("First: got %q, want %q", res.First(), tt.want)
			}
		})
	}
}

func TestValidate_MultipleErrorsInOrder(t *testing.T) {
	res := Validate(groupForm{Title: "", MaxMembers: 0})
	if len(res.All()) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(res.All()), res.All())
	}
	if res.All()[0] != "Title is required." {
		t.Errorf("first error: got %q", res.All()[0])
	}
}
