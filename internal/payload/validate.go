package payload

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/momwise/momwise/internal/models"
)

// Validate reports structural problems in p. An empty result means the
// payload matches the schema the prompt asked for.
func Validate(p models.Payload) []string {
	switch v := p.(type) {
	case models.DietPlanPayload:
		return validateDietPlan(v)
	case models.TimelinePayload:
		return validateTimeline(v)
	default:
		return []string{fmt.Sprintf("unsupported payload type %T", p)}
	}
}

func validateDietPlan(p models.DietPlanPayload) []string {
	var issues []string
	if err := validation.ValidateStruct(&p,
		validation.Field(&p.WeekNumber, validation.Required, validation.Min(models.MinWeek), validation.Max(models.MaxWeek)),
		validation.Field(&p.DailyPlans, validation.Required, validation.Length(7, 7)),
	); err != nil {
		issues = append(issues, err.Error())
	}
	for i := range p.DailyPlans {
		d := &p.DailyPlans[i]
		if err := validation.ValidateStruct(d,
			validation.Field(&d.Breakfast, validation.By(validMeal)),
			validation.Field(&d.Lunch, validation.By(validMeal)),
			validation.Field(&d.Dinner, validation.By(validMeal)),
			validation.Field(&d.Snacks, validation.Required),
		); err != nil {
			issues = append(issues, fmt.Sprintf("day %d: %s", i+1, err.Error()))
		}
	}
	return issues
}

func validMeal(value any) error {
	m, ok := value.(models.Meal)
	if !ok {
		return fmt.Errorf("unexpected meal type %T", value)
	}
	return validation.ValidateStruct(&m,
		validation.Field(&m.Title, validation.Required),
		validation.Field(&m.Description, validation.Required),
	)
}

func validateTimeline(p models.TimelinePayload) []string {
	var issues []string
	b := &p.BabyDevelopment
	if err := validation.ValidateStruct(b,
		validation.Field(&b.Size, validation.Required),
		validation.Field(&b.CompareTo, validation.Required),
		validation.Field(&b.Description, validation.Required),
	); err != nil {
		issues = append(issues, "babyDevelopment: "+err.Error())
	}
	m := &p.MotherChanges
	if err := validation.ValidateStruct(m,
		validation.Field(&m.Physical, validation.Required),
		validation.Field(&m.Hormonal, validation.Required),
	); err != nil {
		issues = append(issues, "motherChanges: "+err.Error())
	}
	if err := validation.ValidateStruct(&p,
		validation.Field(&p.TipsForWeek, validation.Required),
		validation.Field(&p.ImportantNotes, validation.Required),
	); err != nil {
		issues = append(issues, err.Error())
	}
	return issues
}
