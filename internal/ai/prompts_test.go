package ai

import (
	"strings"
	"testing"
)

func TestPromptForKnownProfiles(t *testing.T) {
	t.Parallel()

	if got := PromptFor(ProfileInterview); !strings.Contains(got, "PSEUDOCODE") {
		t.Fatalf("interview prompt lost its structure: %q", got)
	}
	if got := PromptFor(ProfileDefault); !strings.Contains(got, "programming assistant") {
		t.Fatalf("unexpected default prompt: %q", got)
	}
}

func TestPromptForUnknownProfileFallsBack(t *testing.T) {
	t.Parallel()

	if got := PromptFor("nope"); got != PromptFor(ProfileDefault) {
		t.Fatalf("unknown profile must fall back to default")
	}
}

func TestKnownModel(t *testing.T) {
	t.Parallel()

	if !KnownModel("gpt-4o-mini") {
		t.Fatalf("gpt-4o-mini must be known")
	}
	if KnownModel("gpt-99") {
		t.Fatalf("gpt-99 must not be known")
	}
}
