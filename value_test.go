package envault

import (
	"reflect"
	"testing"
)

func TestBoolRoundTrip(t *testing.T) {
	if FormatBool(true) != "True" || FormatBool(false) != "False" {
		t.Errorf("Canonical forms wrong: %q / %q", FormatBool(true), FormatBool(false))
	}

	trueForms := []string{"True", "true", "TRUE", "1", "yes", "on", "y", "t"}
	for _, raw := range trueForms {
		got, err := ParseBool(raw)
		if err != nil || !got {
			t.Errorf("ParseBool(%q) = %t, %v; want true", raw, got, err)
		}
	}

	falseForms := []string{"False", "false", "0", "no", "off", "n", "f"}
	for _, raw := range falseForms {
		got, err := ParseBool(raw)
		if err != nil || got {
			t.Errorf("ParseBool(%q) = %t, %v; want false", raw, got, err)
		}
	}

	if _, err := ParseBool("maybe"); err == nil {
		t.Error("Expected error for unrecognised boolean")
	}
}

func TestIntRoundTrip(t *testing.T) {
	if FormatInt(2875083) != "2875083" {
		t.Errorf("FormatInt(2875083) = %q", FormatInt(2875083))
	}
	got, err := ParseInt("2875083")
	if err != nil || got != 2875083 {
		t.Errorf("ParseInt = %d, %v", got, err)
	}
	if _, err := ParseInt("not a number"); err == nil {
		t.Error("Expected error for malformed int")
	}
}

func TestFloatRoundTrip(t *testing.T) {
	got, err := ParseFloat(FormatFloat(3.14159))
	if err != nil || got != 3.14159 {
		t.Errorf("Float round trip = %v, %v", got, err)
	}
	if _, err := ParseFloat("x"); err == nil {
		t.Error("Expected error for malformed float")
	}
}

func TestListRoundTrip(t *testing.T) {
	parsed := ParseList(`1,"two",3,"four"`)
	want := []string{"1", "two", "3", "four"}
	if !reflect.DeepEqual(parsed, want) {
		t.Errorf("ParseList = %v, want %v", parsed, want)
	}

	// Quoting appears on serialize only when an element needs it.
	elements := []string{"plain", "with,comma", "other"}
	formatted := FormatList(elements)
	if formatted != `plain,"with,comma",other` {
		t.Errorf("FormatList = %q", formatted)
	}
	if !reflect.DeepEqual(ParseList(formatted), elements) {
		t.Errorf("List round trip = %v, want %v", ParseList(formatted), elements)
	}
}

func TestParseListEmpty(t *testing.T) {
	if got := ParseList(""); len(got) != 0 {
		t.Errorf("ParseList(\"\") = %v, want empty", got)
	}
}
