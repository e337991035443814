// Package prompt builds the deterministic generation requests sent to the model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/momwise/momwise/internal/llm"
	"github.com/momwise/momwise/internal/models"
)

// Token budgets per request type.
const (
	DietPlanMaxTokens = 1200
	TimelineMaxTokens = 1000
	ChatMaxTokens     = 500
)

const maternalSystem = "You are a maternal health assistant."

const assistantSystem = `You are a maternal health assistant named MomWise.
Your goal is to provide helpful, evidence-based information about pregnancy and maternal health.
Always include a disclaimer that you are not a substitute for professional medical advice.
If the query seems to indicate a medical emergency or serious concern,
advise the user to contact their healthcare provider immediately.`

const noExtraText = "Do not include any text outside of this JSON structure."

// Build returns the request for a kind and week. The week is assumed to be
// validated by the caller.
func Build(kind models.Kind, week int) (llm.Request, error) {
	switch kind {
	case models.KindDietPlan:
		return llm.Request{
			System:    maternalSystem,
			User:      dietPlanPrompt(week),
			MaxTokens: DietPlanMaxTokens,
		}, nil
	case models.KindTimeline:
		return llm.Request{
			System:    maternalSystem,
			User:      timelinePrompt(week),
			MaxTokens: TimelineMaxTokens,
		}, nil
	default:
		return llm.Request{}, fmt.Errorf("prompt: unknown kind %q", kind)
	}
}

// Chat returns the free-form assistant request for a user message.
func Chat(message string) llm.Request {
	return llm.Request{
		System:    assistantSystem,
		User:      message,
		MaxTokens: ChatMaxTokens,
	}
}

var weekdays = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func dietPlanPrompt(week int) string {
	return fmt.Sprintf(`Generate a healthy, pregnancy-safe meal plan for week %d of pregnancy (%s trimester).
Your response MUST be a valid JSON object with EXACTLY this structure:
{
  "weekNumber": %d,
  "dailyPlans": [
    {
      "breakfast": {"title": "TITLE", "description": "DESCRIPTION", "nutrients": {"NUTRIENT": "AMOUNT"}},
      "lunch": {"title": "TITLE", "description": "DESCRIPTION", "nutrients": {"NUTRIENT": "AMOUNT"}},
      "dinner": {"title": "TITLE", "description": "DESCRIPTION", "nutrients": {"NUTRIENT": "AMOUNT"}},
      "snacks": ["SNACK1", "SNACK2", "SNACK3"]
    },
    ... 6 more objects with the same structure
  ]
}
"dailyPlans" MUST contain exactly 7 objects, one per day in this order: %s.
Every object MUST contain "breakfast", "lunch", "dinner" and "snacks"; "snacks" MUST list at least one item.
"nutrients" is optional.
%s`, week, models.Trimester(week), week, strings.Join(weekdays[:], ", "), noExtraText)
}

func timelinePrompt(week int) string {
	return fmt.Sprintf(`Generate a detailed pregnancy timeline for week %d.
Your response MUST be a valid JSON object with EXACTLY this structure:
{
  "babyDevelopment": {
    "size": "A brief description of the baby's size",
    "compareTo": "What the baby's size compares to (e.g., 'a lemon')",
    "description": "A paragraph about the baby's development this week"
  },
  "motherChanges": {
    "physical": ["Change 1", "Change 2", "Change 3"],
    "hormonal": ["Change 1", "Change 2", "Change 3"]
  },
  "tipsForWeek": ["Tip 1", "Tip 2", "Tip 3", "Tip 4"],
  "importantNotes": "Any important notes for this week"
}
All four top-level keys are mandatory.
%s`, week, noExtraText)
}
