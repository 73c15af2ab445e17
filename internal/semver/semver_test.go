package semver

import "testing"

func mustVersion(t *testing.T, raw string) Version {
	t.Helper()
	v, err := ParseVersion(raw)
	if err != nil {
		t.Fatalf("ParseVersion(%q): %v", raw, err)
	}
	return v
}

func mustConstraint(t *testing.T, raw string) Constraint {
	t.Helper()
	c, err := ParseConstraint(raw)
	if err != nil {
		t.Fatalf("ParseConstraint(%q): %v", raw, err)
	}
	return c
}

func TestSatisfies(t *testing.T) {
	c := mustConstraint(t, ">=3.0.0 <4.0.0")

	if !Satisfies(mustVersion(t, "3.4.0"), c) {
		t.Fatalf("expected 3.4.0 to satisfy >=3.0.0 <4.0.0")
	}
	if Satisfies(mustVersion(t, "4.0.0"), c) {
		t.Fatalf("expected 4.0.0 to NOT satisfy >=3.0.0 <4.0.0")
	}
	if Satisfies(Version{}, c) {
		t.Fatalf("expected zero Version to never satisfy")
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := ParseVersion("three"); err == nil {
		t.Fatalf("expected error for invalid version")
	}
	if _, err := ParseConstraint(">>> 1"); err == nil {
		t.Fatalf("expected error for invalid constraint")
	}
}

func TestVersionString(t *testing.T) {
	if got := mustVersion(t, "v3.4").String(); got != "3.4.0" {
		t.Fatalf("expected normalized 3.4.0, got %q", got)
	}
}
