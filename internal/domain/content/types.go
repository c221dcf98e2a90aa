package content

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"kaamos/internal/domain/survival"
)

// WeatherSet is an allow-list of weathers. Authors may write a single value or
// a list.
type WeatherSet []survival.Weather

func (w *WeatherSet) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var one survival.Weather
		if err := value.Decode(&one); err != nil {
			return err
		}
		*w = WeatherSet{one}
		return nil
	case yaml.SequenceNode:
		var many []survival.Weather
		if err := value.Decode(&many); err != nil {
			return err
		}
		*w = many
		return nil
	default:
		return fmt.Errorf("weather: expected scalar or list at line %d", value.Line)
	}
}

func (w *WeatherSet) UnmarshalJSON(data []byte) error {
	var one survival.Weather
	if err := json.Unmarshal(data, &one); err == nil {
		*w = WeatherSet{one}
		return nil
	}
	var many []survival.Weather
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("weather: expected string or list: %w", err)
	}
	*w = many
	return nil
}

// Contains reports whether the set allows weather. An empty set allows all.
func (w WeatherSet) Contains(weather survival.Weather) bool {
	if len(w) == 0 {
		return true
	}
	for _, v := range w {
		if v == weather {
			return true
		}
	}
	return false
}

type PathRequirement struct {
	Path     survival.Path `yaml:"path" json:"path"`
	MinLevel int           `yaml:"min_level" json:"min_level"`
}

// Requirements gate an event. Nil pointers and empty values mean "no requirement".
type Requirements struct {
	MinAnomaly   *float64         `yaml:"min_anomaly" json:"min_anomaly,omitempty"`
	MaxSanity    *float64         `yaml:"max_sanity" json:"max_sanity,omitempty"`
	RequiredFlag survival.Flag    `yaml:"required_flag" json:"required_flag,omitempty"`
	RequiredPath *PathRequirement `yaml:"required_path" json:"required_path,omitempty"`
	RequiredItem string           `yaml:"required_item" json:"required_item,omitempty"`
	Weather      WeatherSet       `yaml:"weather" json:"weather,omitempty"`
}

type Choice struct {
	Text    string                `yaml:"text" json:"text"`
	Effects survival.Delta        `yaml:"effects" json:"effects,omitempty"`
	XP      map[survival.Path]int `yaml:"xp" json:"xp,omitempty"`
	Flags   survival.Flags        `yaml:"flags" json:"flags,omitempty"`
	Loot    string                `yaml:"loot" json:"loot,omitempty"`
}

type Event struct {
	ID           string          `yaml:"id" json:"id"`
	Phase        survival.Phase  `yaml:"phase" json:"phase"`
	Family       survival.Family `yaml:"family" json:"family"`
	Title        string          `yaml:"title" json:"title"`
	Description  string          `yaml:"description" json:"description"`
	Fallback     bool            `yaml:"fallback" json:"fallback,omitempty"`
	Requirements Requirements    `yaml:"requirements" json:"requirements"`
	Choices      []Choice        `yaml:"choices" json:"choices"`
}

// IsFallback reports whether the event is reserved for the fallback pool.
func (e Event) IsFallback() bool {
	return e.Fallback || e.Family == survival.FamilyFallback
}

type ItemType string

const (
	ItemConsumable ItemType = "consumable"
	ItemTool       ItemType = "tool"
)

type OnUse struct {
	Effects survival.Delta `yaml:"effects" json:"effects,omitempty"`
	Flags   survival.Flags `yaml:"flags" json:"flags,omitempty"`
	Consume bool           `yaml:"consume" json:"consume"`
	Message string         `yaml:"message" json:"message,omitempty"`
}

type Item struct {
	ID          string   `yaml:"id" json:"id"`
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Price       float64  `yaml:"price" json:"price"`
	Type        ItemType `yaml:"type" json:"type"`
	OnUse       *OnUse   `yaml:"on_use" json:"on_use,omitempty"`
}

// HeatItem reports whether using the item warms the player.
func (i Item) HeatItem() bool {
	return i.OnUse != nil && i.OnUse.Effects[survival.ResourceHeat] > 0
}
