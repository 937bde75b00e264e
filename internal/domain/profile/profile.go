// Package profile holds the user's slowly changing attributes and the daily
// readiness snapshot that informs generation prompts.
package profile

import (
	"sort"
	"strings"
)

// Sex of the user
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// HormonalPhase is meaningful only for female profiles
type HormonalPhase string

const (
	PhaseNone          HormonalPhase = "none"
	PhaseFollicular    HormonalPhase = "follicular"
	PhaseLuteal        HormonalPhase = "luteal"
	PhasePCOS          HormonalPhase = "pcos"
	PhaseEndometriosis HormonalPhase = "endometriosis"
	PhasePregnancy     HormonalPhase = "pregnancy"
	PhasePostpartum    HormonalPhase = "postpartum"
	PhaseMenopause     HormonalPhase = "menopause"
	PhaseREDS          HormonalPhase = "red-s"
)

// Goal is the training objective
type Goal string

const (
	GoalFatLoss     Goal = "fat_loss"
	GoalHypertrophy Goal = "hypertrophy"
	GoalStrength    Goal = "strength"
	GoalRecomp      Goal = "recomposition"
	GoalEndurance   Goal = "endurance"
	GoalHealth      Goal = "health"
)

// Experience level
type Experience string

const (
	ExperienceBeginner     Experience = "beginner"
	ExperienceIntermediate Experience = "intermediate"
	ExperienceAdvanced     Experience = "advanced"
)

// DietType enumeration
type DietType string

const (
	DietOmnivore      DietType = "omnivore"
	DietVegetarian    DietType = "vegetarian"
	DietVegan         DietType = "vegan"
	DietPescatarian   DietType = "pescatarian"
	DietKeto          DietType = "keto"
	DietMediterranean DietType = "mediterranean"
)

// Level is a three-step scale shared by several preferences
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Profile is the user's static and slowly changing attributes.
// It is overwritten wholesale by the profile-edit action.
type Profile struct {
	Sex           Sex           `json:"sex" yaml:"sex"`
	Age           int           `json:"age" yaml:"age"`
	WeightKg      float64       `json:"weight_kg" yaml:"weight_kg"`
	HeightCm      float64       `json:"height_cm" yaml:"height_cm"`
	ActivityLevel Level         `json:"activity_level" yaml:"activity_level"`
	HormonalPhase HormonalPhase `json:"hormonal_phase" yaml:"hormonal_phase"`

	Goal             Goal       `json:"goal" yaml:"goal"`
	Experience       Experience `json:"experience" yaml:"experience"`
	TrainingLocation string     `json:"training_location" yaml:"training_location"`
	Schedule         string     `json:"schedule" yaml:"schedule"`
	TrainingDays     int        `json:"training_days" yaml:"training_days"`

	DietType            DietType `json:"diet_type" yaml:"diet_type"`
	MealsPerDay         int      `json:"meals_per_day" yaml:"meals_per_day"`
	IntermittentFasting bool     `json:"intermittent_fasting" yaml:"intermittent_fasting"`

	Allergies   string `json:"allergies" yaml:"allergies"`
	Supplements string `json:"supplements" yaml:"supplements"`
	Injuries    string `json:"injuries" yaml:"injuries"`

	SleepHours     float64 `json:"sleep_hours" yaml:"sleep_hours"`
	StressBaseline Stress  `json:"stress_baseline" yaml:"stress_baseline"`
	WakeTime       string  `json:"wake_time" yaml:"wake_time"`
	SleepTime      string  `json:"sleep_time" yaml:"sleep_time"`

	DigestiveSensitivity Level `json:"digestive_sensitivity" yaml:"digestive_sensitivity"`
	CaffeineTolerance    Level `json:"caffeine_tolerance" yaml:"caffeine_tolerance"`
	Budget               Level `json:"budget" yaml:"budget"`

	Equipment      []string `json:"equipment" yaml:"equipment"`
	MaxCookMinutes int      `json:"max_cook_minutes" yaml:"max_cook_minutes"`

	LikedIngredients    []string `json:"liked_ingredients" yaml:"liked_ingredients"`
	DislikedIngredients []string `json:"disliked_ingredients" yaml:"disliked_ingredients"`
}

// DefaultProfile is the profile every new session starts with
func DefaultProfile() Profile {
	return Profile{
		Sex:                  SexMale,
		Age:                  30,
		WeightKg:             75,
		HeightCm:             175,
		ActivityLevel:        LevelMedium,
		HormonalPhase:        PhaseNone,
		Goal:                 GoalHealth,
		Experience:           ExperienceBeginner,
		TrainingLocation:     "gym",
		Schedule:             "morning",
		TrainingDays:         3,
		DietType:             DietOmnivore,
		MealsPerDay:          4,
		SleepHours:           8,
		StressBaseline:       StressMedium,
		WakeTime:             "07:00",
		SleepTime:            "23:00",
		DigestiveSensitivity: LevelLow,
		CaffeineTolerance:    LevelMedium,
		Budget:               LevelMedium,
		Equipment:            []string{},
		MaxCookMinutes:       30,
		LikedIngredients:     []string{},
		DislikedIngredients:  []string{},
	}
}

// Normalize enforces the profile invariants: the hormonal phase resets to
// none for non-female profiles and list fields are lowercased, trimmed and
// deduplicated.
func (p Profile) Normalize() Profile {
	if p.Sex != SexFemale || p.HormonalPhase == "" {
		p.HormonalPhase = PhaseNone
	}
	p.Equipment = normalizeList(p.Equipment)
	p.LikedIngredients = normalizeList(p.LikedIngredients)
	p.DislikedIngredients = normalizeList(p.DislikedIngredients)
	return p
}

// Clone returns a deep copy
func (p Profile) Clone() Profile {
	p.Equipment = append([]string{}, p.Equipment...)
	p.LikedIngredients = append([]string{}, p.LikedIngredients...)
	p.DislikedIngredients = append([]string{}, p.DislikedIngredients...)
	return p
}

func normalizeList(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		v := strings.ToLower(strings.TrimSpace(item))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
