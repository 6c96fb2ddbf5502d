package steps

import (
	"reflect"
	"testing"
)

func TestParseNumbered(t *testing.T) {
	input := `Here are the extracted steps:

1. Log in to the admin portal with your credentials.
2) Navigate to the Licenses tab.
- Export the usage report as CSV.
3. Verify the exported data.

Let me know if you need anything else.`

	got := ParseNumbered(input)
	want := []string{
		"Log in to the admin portal with your credentials.",
		"Navigate to the Licenses tab.",
		"Export the usage report as CSV.",
		"Verify the exported data.",
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseNumbered:\n got %#v\nwant %#v", got, want)
	}
}

func TestParseNumbered_Empty(t *testing.T) {
	if got := ParseNumbered("no list here, just prose"); len(got) != 0 {
		t.Errorf("expected no steps, got %#v", got)
	}
}

func TestFallback(t *testing.T) {
	transcript := "So first we open the admin portal. Um, the weather is nice today. " +
		"Then we click on the licenses tab to review assignments. " +
		"Finally we export the report for the audit team."

	got := Fallback(transcript, []string{"open", "click", "export"}, 10)

	if len(got) != 3 {
		t.Fatalf("expected 3 steps, got %#v", got)
	}
	if got[0] != "So first we open the admin portal" {
		t.Errorf("unexpected first step: %q", got[0])
	}
}

func TestFallback_MaxSteps(t *testing.T) {
	transcript := "We click here. Then we click there. Then we click again somewhere."

	got := Fallback(transcript, []string{"click"}, 2)
	if len(got) != 2 {
		t.Errorf("expected cap at 2 steps, got %#v", got)
	}
}

func TestToSteps_OrdinalIDs(t *testing.T) {
	out := ToSteps([]string{"first", "second"})
	if out[0].ID != 0 || out[1].ID != 1 {
		t.Errorf("step ids must be ordinal: %#v", out)
	}
}
