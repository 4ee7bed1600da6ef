// Package suggest derives clothing advice from weather observations.
package suggest

import (
	"html"
	"strings"

	"github.com/Proton-105/weather-bot/internal/weather"
)

// Engine turns an observation into two lines of advice. Advice may contain HTML markup.
type Engine interface {
	TemperatureAdvice(obs weather.Observation) string
	ConditionAdvice(obs weather.Observation) string
}

// TemperatureBand maps temperatures below UpperC to a piece of advice.
type TemperatureBand struct {
	UpperC float64
	Advice string
}

// ConditionRule matches a condition description by keyword.
type ConditionRule struct {
	Keywords []string
	Advice   string
}

// DefaultTemperatureBands are evaluated in order; the last band catches everything else.
var DefaultTemperatureBands = []TemperatureBand{
	{UpperC: -10, Advice: "<b>Extreme cold:</b> wear a heavy insulated coat, thermal layers, a hat, a scarf and gloves."},
	{UpperC: 0, Advice: "<b>Freezing:</b> wear a winter coat, a warm hat and gloves."},
	{UpperC: 10, Advice: "<b>Cold:</b> wear a jacket over a warm sweater."},
	{UpperC: 18, Advice: "<b>Cool:</b> a light jacket or a hoodie should be enough."},
	{UpperC: 25, Advice: "<b>Mild:</b> a t-shirt with a light layer is comfortable."},
}

// HotAdvice applies at or above the last band.
const HotAdvice = "<b>Hot:</b> wear light, breathable clothing and stay hydrated."

// DefaultConditionRules are evaluated in order; the first keyword hit wins.
var DefaultConditionRules = []ConditionRule{
	{Keywords: []string{"thunder", "storm", "tornado", "squall"}, Advice: "<b>Storm:</b> stay indoors if you can, otherwise wear a waterproof jacket and avoid umbrellas."},
	{Keywords: []string{"snow", "sleet"}, Advice: "<b>Snow:</b> wear waterproof boots and a water-resistant coat."},
	{Keywords: []string{"rain", "drizzle", "shower"}, Advice: "<b>Rain:</b> take an umbrella and wear a waterproof jacket."},
	{Keywords: []string{"fog", "mist", "haze", "smoke", "dust", "sand", "ash"}, Advice: "<b>Low visibility:</b> wear something bright or reflective."},
	{Keywords: []string{"clear", "sun"}, Advice: "<b>Sunny:</b> bring sunglasses and sunscreen."},
	{Keywords: []string{"cloud", "overcast"}, Advice: "<b>Cloudy:</b> keep an extra layer handy in case it gets cooler."},
}

// Clothing is the default rule-based Engine.
type Clothing struct {
	bands      []TemperatureBand
	hotAdvice  string
	conditions []ConditionRule
}

// NewClothing returns an engine using the default rules.
func NewClothing() *Clothing {
	return &Clothing{
		bands:      DefaultTemperatureBands,
		hotAdvice:  HotAdvice,
		conditions: DefaultConditionRules,
	}
}

// TemperatureAdvice picks the first band whose upper bound exceeds the temperature.
func (c *Clothing) TemperatureAdvice(obs weather.Observation) string {
	for _, band := range c.bands {
		if obs.TemperatureC < band.UpperC {
			return band.Advice
		}
	}
	return c.hotAdvice
}

// ConditionAdvice matches the condition text against keyword rules.
func (c *Clothing) ConditionAdvice(obs weather.Observation) string {
	condition := strings.ToLower(obs.Condition)
	for _, rule := range c.conditions {
		for _, keyword := range rule.Keywords {
			if strings.Contains(condition, keyword) {
				return rule.Advice
			}
		}
	}

	if strings.TrimSpace(obs.Condition) == "" {
		return "No special clothing needed for the conditions."
	}
	return "No special clothing needed for <i>" + html.EscapeString(obs.Condition) + "</i>."
}
