package models

// Payload is implemented only by DietPlanPayload and TimelinePayload.
type Payload interface {
	Kind() Kind
	isPayload()
}

// Meal is one of the three main meals of a day.
type Meal struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Nutrients   map[string]string `json:"nutrients,omitempty"`
}

// DayPlan is a single day of a diet plan.
type DayPlan struct {
	Breakfast Meal     `json:"breakfast"`
	Lunch     Meal     `json:"lunch"`
	Dinner    Meal     `json:"dinner"`
	Snacks    []string `json:"snacks"`
}

// DietPlanPayload is a seven-day meal plan for one pregnancy week.
type DietPlanPayload struct {
	WeekNumber int       `json:"weekNumber"`
	DailyPlans []DayPlan `json:"dailyPlans"`
}

func (DietPlanPayload) Kind() Kind { return KindDietPlan }
func (DietPlanPayload) isPayload() {}

// BabyDevelopment describes the baby for the week.
type BabyDevelopment struct {
	Size        string `json:"size"`
	CompareTo   string `json:"compareTo"`
	Description string `json:"description"`
}

// MotherChanges lists the changes the mother may notice.
type MotherChanges struct {
	Physical []string `json:"physical"`
	Hormonal []string `json:"hormonal"`
}

// TimelinePayload is the developmental timeline for one pregnancy week.
type TimelinePayload struct {
	BabyDevelopment BabyDevelopment `json:"babyDevelopment"`
	MotherChanges   MotherChanges   `json:"motherChanges"`
	TipsForWeek     []string        `json:"tipsForWeek"`
	ImportantNotes  string          `json:"importantNotes"`
}

func (TimelinePayload) Kind() Kind { return KindTimeline }
func (TimelinePayload) isPayload() {}
