package calls

import "testing"

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"05551112233", "+905551112233"},
		{"5551112233", "+905551112233"},
		{"905551112233", "+905551112233"},
		{"+90 555 111 22 33", "+905551112233"},
		{"0 (555) 111-22-33", "+905551112233"},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		if err != nil {
			t.Fatalf("%q: expected no error, got %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	for _, in := range []string{"05551112233", "5551112233", "+905551112233"} {
		once, err := NormalizePhone(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		twice, err := NormalizePhone(once)
		if err != nil {
			t.Fatalf("%q: %v", once, err)
		}
		if once != twice {
			t.Fatalf("normalization not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestNormalizePhone_RejectsTooShort(t *testing.T) {
	for _, in := range []string{"", "abc", "555"} {
		if _, err := NormalizePhone(in); err != ErrInvalidPhone {
			t.Fatalf("%q: expected ErrInvalidPhone, got %v", in, err)
		}
	}
}
