package entry

import "time"

// Meals holds the optional free-text meal log for one day.
type Meals struct {
	Breakfast *string `json:"breakfast,omitempty"`
	Lunch     *string `json:"lunch,omitempty"`
	Dinner    *string `json:"dinner,omitempty"`
}

func (m *Meals) Clone() *Meals {
	if m == nil {
		return nil
	}
	out := &Meals{}
	out.Breakfast = cloneString(m.Breakfast)
	out.Lunch = cloneString(m.Lunch)
	out.Dinner = cloneString(m.Dinner)
	return out
}

// Entry is one member's snapshot for one calendar date. The store never
// holds more than one entry per (userId, date) pair.
type Entry struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Date            string    `json:"date"`
	WeightKg        float64   `json:"weightKg"`
	ExerciseMinutes *int      `json:"exerciseMinutes,omitempty"`
	ActivityType    *string   `json:"activityType,omitempty"`
	Meals           *Meals    `json:"meals,omitempty"`
	MealPhotoPath   *string   `json:"mealPhotoPath,omitempty"`
	MealPhotoShared bool      `json:"mealPhotoShared"`
	Note            *string   `json:"note,omitempty"`
	PhotoPath       *string   `json:"photoPath,omitempty"`
	PhotoShared     bool      `json:"photoShared"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (e *Entry) Clone() Entry {
	out := *e
	if e.ExerciseMinutes != nil {
		v := *e.ExerciseMinutes
		out.ExerciseMinutes = &v
	}
	out.ActivityType = cloneString(e.ActivityType)
	out.Meals = e.Meals.Clone()
	out.MealPhotoPath = cloneString(e.MealPhotoPath)
	out.Note = cloneString(e.Note)
	out.PhotoPath = cloneString(e.PhotoPath)
	return out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
