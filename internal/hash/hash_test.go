package hash

import (
	"io"
	"strings"
	"testing"
)

func TestTruncatedSHA256(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int // expected length
	}{
		{
			name:  "empty string",
			input: "",
			want:  IDLength,
		},
		{
			name:  "paper id",
			input: "2024-CS-CS1",
			want:  IDLength,
		},
		{
			name:  "id with path separators",
			input: "2024-CS/../CS1",
			want:  IDLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncatedSHA256(tt.input)
			if len(got) != tt.want {
				t.Errorf("TruncatedSHA256(%q) length = %d, want %d", tt.input, len(got), tt.want)
			}
		})
	}
}

func TestTruncatedSHA256_DifferentInputs(t *testing.T) {
	a := TruncatedSHA256("input a")
	b := TruncatedSHA256("input b")
	if a == b {
		t.Error("Different inputs produced same hash")
	}
}

func TestTruncatedSHA256_IsDigestPrefix(t *testing.T) {
	full := SHA256Bytes([]byte("2024-CS-CS1"))
	if got := TruncatedSHA256("2024-CS-CS1"); got != full[:IDLength] {
		t.Errorf("TruncatedSHA256 = %s, want prefix of %s", got, full)
	}
}

func TestSHA256Bytes_KnownVector(t *testing.T) {
	const want = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if got := SHA256Bytes([]byte("hello world")); got != want {
		t.Errorf("SHA256Bytes = %s, want %s", got, want)
	}
}

func TestDigest_MatchesOneShot(t *testing.T) {
	body := strings.Repeat("gate paper ", 1000)

	d := NewDigest()
	if _, err := io.Copy(d, strings.NewReader(body)); err != nil {
		t.Fatal(err)
	}

	if got, want := d.Sum(), SHA256Bytes([]byte(body)); got != want {
		t.Errorf("Digest.Sum = %s, want %s", got, want)
	}
}

func TestMatches(t *testing.T) {
	sum := SHA256Bytes([]byte("hello world"))

	tests := []struct {
		expected string
		want     bool
	}{
		{sum, true},
		{strings.ToUpper(sum), true},
		{"sha256:" + sum, true},
		{"SHA256:" + sum, true},
		{" " + sum + "\n", true},
		{sum[:10], false},
		{"", false},
	}

	for _, tt := range tests {
		if got := Matches(tt.expected, sum); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.expected, got, tt.want)
		}
	}
}
