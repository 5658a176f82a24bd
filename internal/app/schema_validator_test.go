package app

import (
	"errors"
	"testing"
)

func TestValidateBoardPayload(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantPath string
		wantErr  bool
	}{
		{
			name:    "valid board",
			payload: `{"todo":["a"],"doing":[],"done":["b","c"]}`,
		},
		{
			name:    "valid export",
			payload: `{"version":"tavla.v1","exported_at":"2026-01-01T00:00:00Z","todo":[],"doing":[],"done":[]}`,
		},
		{
			name:    "whitespace label",
			payload: `{"todo":[" "],"doing":[],"done":["\\t"]}`,
		},
		{
			name:     "empty payload",
			payload:  "   ",
			wantErr:  true,
			wantPath: "$",
		},
		{
			name:     "invalid json",
			payload:  `{"todo":`,
			wantErr:  true,
			wantPath: "$",
		},
		{
			name:     "missing column",
			payload:  `{"todo":[],"doing":[]}`,
			wantErr:  true,
			wantPath: "$",
		},
		{
			name:     "column is not an array",
			payload:  `{"todo":"a","doing":[],"done":[]}`,
			wantErr:  true,
			wantPath: "$.todo",
		},
		{
			name:     "label is not a string",
			payload:  `{"todo":[],"doing":["a",3],"done":[]}`,
			wantErr:  true,
			wantPath: "$.doing[1]",
		},
		{
			name:     "empty label",
			payload:  `{"todo":[],"doing":[],"done":["ok",""]}`,
			wantErr:  true,
			wantPath: "$.done[1]",
		},
		{
			name:     "unknown version",
			payload:  `{"version":"tavla.v0","todo":[],"doing":[],"done":[]}`,
			wantErr:  true,
			wantPath: "$.version",
		},
		{
			name:     "additional property",
			payload:  `{"todo":[],"doing":[],"done":[],"archived":[]}`,
			wantErr:  true,
			wantPath: "$",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBoardPayload([]byte(tc.payload))
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("ValidateBoardPayload() error = %v", err)
				}
				return
			}
			var schemaErr SchemaValidationError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaValidationError, got %T %v", err, err)
			}
			if schemaErr.Path != tc.wantPath {
				t.Fatalf("path = %q, want %q (%v)", schemaErr.Path, tc.wantPath, err)
			}
			if schemaErr.Message == "" {
				t.Fatal("expected a message")
			}
		})
	}
}

func TestJSONPointerToPath(t *testing.T) {
	cases := map[string]string{
		"":           "$",
		"#":          "$",
		"/todo":      "$.todo",
		"/todo/2":    "$.todo[2]",
		"/a~1b/c~0d": "$.a/b.c~d",
	}
	for in, want := range cases {
		if got := jsonPointerToPath(in); got != want {
			t.Fatalf("jsonPointerToPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSchemaValidationErrorString(t *testing.T) {
	if got := (SchemaValidationError{Message: "bad"}).Error(); got != "$: bad" {
		t.Fatalf("Error() = %q", got)
	}
}
