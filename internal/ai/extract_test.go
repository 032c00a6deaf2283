package ai

import "testing"

func TestExtractJSONObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		expect  string
		wantErr bool
	}{
		{
			name:   "bare object",
			input:  `{"a": 1}`,
			expect: `{"a": 1}`,
		},
		{
			name:   "markdown fenced with preamble",
			input:  "Here is the assessment:\n```json\n{\"matchScore\": 88}\n```\nLet me know if you need more.",
			expect: `{"matchScore": 88}`,
		},
		{
			name:   "nested objects",
			input:  `noise {"outer": {"inner": {"deep": true}}} noise`,
			expect: `{"outer": {"inner": {"deep": true}}}`,
		},
		{
			name:   "braces inside strings do not count",
			input:  `{"answer": "use {} literals"} trailing`,
			expect: `{"answer": "use {} literals"}`,
		},
		{
			name:   "escaped quotes inside strings",
			input:  `{"answer": "a \"quoted\" {value}"}`,
			expect: `{"answer": "a \"quoted\" {value}"}`,
		},
		{
			name:    "no object at all",
			input:   "I could not produce a structured answer.",
			wantErr: true,
		},
		{
			name:    "unbalanced object",
			input:   `{"a": {"b": 1}`,
			wantErr: true,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ExtractJSONObject(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestClampPaperLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  int
		expect int
	}{
		{input: -3, expect: 1},
		{input: 0, expect: 1},
		{input: 1, expect: 1},
		{input: 10, expect: 10},
		{input: MaxProfilePapers, expect: MaxProfilePapers},
		{input: 50, expect: MaxProfilePapers},
	}

	for _, tt := range tests {
		if got := ClampPaperLimit(tt.input); got != tt.expect {
			t.Fatalf("ClampPaperLimit(%d): expected %d, got %d", tt.input, tt.expect, got)
		}
	}
}
