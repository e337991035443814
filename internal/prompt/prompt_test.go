package prompt

import (
	"strings"
	"testing"

	"github.com/momwise/momwise/internal/models"
)

func TestBuildDietPlan(t *testing.T) {
	req, err := Build(models.KindDietPlan, 12)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if req.MaxTokens != DietPlanMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", req.MaxTokens, DietPlanMaxTokens)
	}
	if req.System != maternalSystem {
		t.Errorf("System = %q", req.System)
	}
	for _, want := range []string{
		"week 12 of pregnancy",
		`"weekNumber": 12`,
		`"dailyPlans"`,
		"exactly 7 objects",
		"Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday",
		`"breakfast"`, `"lunch"`, `"dinner"`, `"snacks"`,
		"at least one item",
		noExtraText,
	} {
		if !strings.Contains(req.User, want) {
			t.Errorf("diet prompt missing %q", want)
		}
	}
}

func TestBuildTimeline(t *testing.T) {
	req, err := Build(models.KindTimeline, 30)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if req.MaxTokens != TimelineMaxTokens {
		t.Errorf("MaxTokens = %d, want %d", req.MaxTokens, TimelineMaxTokens)
	}
	for _, want := range []string{
		"week 30",
		`"babyDevelopment"`, `"motherChanges"`, `"tipsForWeek"`, `"importantNotes"`,
		"All four top-level keys are mandatory",
		noExtraText,
	} {
		if !strings.Contains(req.User, want) {
			t.Errorf("timeline prompt missing %q", want)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	a, _ := Build(models.KindDietPlan, 20)
	b, _ := Build(models.KindDietPlan, 20)
	if a != b {
		t.Error("Build should be deterministic")
	}
	c, _ := Build(models.KindDietPlan, 21)
	if a.User == c.User {
		t.Error("different weeks should produce different prompts")
	}
}

func TestBuildUnknownKind(t *testing.T) {
	if _, err := Build(models.Kind("horoscope"), 3); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestChat(t *testing.T) {
	req := Chat("Is coffee safe?")
	if req.User != "Is coffee safe?" {
		t.Errorf("User = %q", req.User)
	}
	if req.MaxTokens != ChatMaxTokens {
		t.Errorf("MaxTokens = %d", req.MaxTokens)
	}
	if !strings.Contains(req.System, "MomWise") || !strings.Contains(req.System, "not a substitute for professional medical advice") {
		t.Errorf("System prompt missing assistant persona: %q", req.System)
	}
}
