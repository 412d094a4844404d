package validation

import "testing"

func TestValidateSessionName(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"2025/2026", true},
		{"1999/2000", true},
		{"2025/2025", false},
		{"2025/2027", false},
		{"2026/2025", false},
		{"2025-2026", false},
		{"25/26", false},
		{"", false},
		{"2025/2026 ", false},
	}

	for _, c := range cases {
		if got := ValidateSessionName(c.name); got != c.valid {
			t.Errorf("ValidateSessionName(%q) = %v, want %v", c.name, got, c.valid)
		}
	}
}

func TestCourseCodeRegex(t *testing.T) {
	cases := []struct {
		code  string
		valid bool
	}{
		{"CSC101", true},
		{"GST 102", true},
		{"MATH201", true},
		{"csc101", false},
		{"C101", false},
		{"CSC1001", false},
		{"CSC  101", false},
		{"", false},
	}

	for _, c := range cases {
		if got := CourseCodeRegex.MatchString(c.code); got != c.valid {
			t.Errorf("CourseCodeRegex(%q) = %v, want %v", c.code, got, c.valid)
		}
	}
}

func TestValidatorCustomTags(t *testing.T) {
	v := NewValidator()

	type payload struct {
		Session string `validate:"required,session_name"`
		Code    string `validate:"required,course_code"`
	}

	if err := v.ValidateStruct(payload{Session: "2025/2026", Code: "CSC101"}); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}

	err := v.ValidateStruct(payload{Session: "2025/2027", Code: "csc101"})
	if err == nil {
		t.Fatal("invalid payload accepted")
	}

	fields := FormatValidationErrors(err)
	if _, ok := fields["session"]; !ok {
		t.Errorf("expected session error, got %v", fields)
	}
	if _, ok := fields["code"]; !ok {
		t.Errorf("expected code error, got %v", fields)
	}
}
