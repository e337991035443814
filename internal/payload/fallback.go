package payload

import "github.com/momwise/momwise/internal/models"

// NotAvailable is the placeholder used in fallback timelines.
const NotAvailable = "Information not available"

// Fallback returns the structurally complete default payload for kind.
func Fallback(kind models.Kind, week int) models.Payload {
	if kind == models.KindTimeline {
		return fallbackTimeline()
	}
	return fallbackDietPlan(week)
}

func fallbackDietPlan(week int) models.DietPlanPayload {
	days := make([]models.DayPlan, 7)
	for i := range days {
		days[i] = models.DayPlan{
			Breakfast: models.Meal{Title: "Healthy breakfast", Description: "Nutritious breakfast for pregnancy"},
			Lunch:     models.Meal{Title: "Balanced lunch", Description: "Healthy lunch for pregnancy"},
			Dinner:    models.Meal{Title: "Nutritious dinner", Description: "Healthy dinner for pregnancy"},
			Snacks:    []string{"Fruit", "Yogurt", "Nuts"},
		}
	}
	return models.DietPlanPayload{WeekNumber: week, DailyPlans: days}
}

func fallbackTimeline() models.TimelinePayload {
	return models.TimelinePayload{
		BabyDevelopment: models.BabyDevelopment{
			Size:        NotAvailable,
			CompareTo:   NotAvailable,
			Description: NotAvailable,
		},
		MotherChanges: models.MotherChanges{
			Physical: []string{},
			Hormonal: []string{},
		},
		TipsForWeek:    []string{},
		ImportantNotes: "Unable to generate timeline for this week.",
	}
}
