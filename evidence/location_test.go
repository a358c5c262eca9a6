package evidence

import "testing"

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Location
		wantErr bool
	}{
		{"path only", "internal/payment/charge.go", Location{Path: "internal/payment/charge.go"}, false},
		{"path with start", "charge.go:42", Location{Path: "charge.go", Start: 42}, false},
		{"path with range", "charge.go:42-80", Location{Path: "charge.go", Start: 42, End: 80}, false},
		{"single line range", "charge.go:7-7", Location{Path: "charge.go", Start: 7, End: 7}, false},
		{"empty", "", Location{}, true},
		{"whitespace only", "   ", Location{}, true},
		{"inverted range", "charge.go:80-42", Location{}, true},
		{"zero start", "charge.go:0", Location{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocation(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLocation(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("ParseLocation(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLocation_String_RoundTrip(t *testing.T) {
	for _, input := range []string{"charge.go", "charge.go:42", "charge.go:42-80"} {
		loc, err := ParseLocation(input)
		if err != nil {
			t.Fatalf("ParseLocation(%q) unexpected error: %v", input, err)
		}
		if loc.String() != input {
			t.Errorf("String() = %q, want %q", loc.String(), input)
		}
	}
}

func TestLocation_IsExternal(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"vendor/github.com/x/y/z.go", true},
		{"third_party/tls/config.go", true},
		{"node_modules/left-pad/index.js", true},
		{"external:payment-gateway", true},
		{"infra:load-balancer", true},
		{"https://example.com/policy", true},
		{"internal/payment/charge.go", false},
		{"charge.go", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			loc := Location{Path: tt.path}
			if got := loc.IsExternal(); got != tt.want {
				t.Errorf("IsExternal(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint([]byte("test output"))
	b := Fingerprint([]byte("test output"))
	c := Fingerprint([]byte("different output"))

	if a != b {
		t.Error("equal inputs should produce equal fingerprints")
	}
	if a == c {
		t.Error("different inputs should produce different fingerprints")
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length = %d, want 64 hex chars", len(a))
	}
}

func TestTruncateEvidence(t *testing.T) {
	short := "short evidence"
	if Truncate(short) != short {
		t.Error("short evidence should pass through untouched")
	}

	long := make([]byte, MaxEvidenceLength*2)
	for i := range long {
		long[i] = 'x'
	}
	truncated := Truncate(string(long))
	if len(truncated) > MaxEvidenceLength {
		t.Errorf("truncated length = %d, want <= %d", len(truncated), MaxEvidenceLength)
	}
	if truncated[len(truncated)-1] != ']' {
		t.Error("truncated evidence should end with the truncation marker")
	}
}
