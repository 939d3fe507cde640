package errors

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("client not found"),
			expected: "Error: client not found",
		},
		{
			name:     "hinted error",
			err:      WithHint(errors.New("not signed in"), "run 'clientmgr login'"),
			expected: "Error: not signed in (hint: run 'clientmgr login')",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestWithHint(t *testing.T) {
	base := errors.New("boom")

	if WithHint(nil, "ignored") != nil {
		t.Error("WithHint(nil) should return nil")
	}

	wrapped := WithHint(base, "try again")
	if !errors.Is(wrapped, base) {
		t.Error("hinted error should unwrap to the original")
	}

	bare := WithHint(base, "")
	if bare.Error() != "boom" {
		t.Errorf("Error() without suggestion = %q", bare.Error())
	}
}
