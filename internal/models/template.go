package models

// Template is a starter exercise from the read-only catalog.
type Template struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Difficulty  string      `json:"difficulty" yaml:"difficulty"` // beginner, intermediate or advanced
	Category    string      `json:"category" yaml:"category"`
	Calories    int         `json:"estimated_calories,omitempty" yaml:"estimated_calories"`
	Timer       TimerConfig `json:"timer" yaml:"timer"`
}
