// Package travel asks a model for a traveller's preferences in a city and
// turns them into recommendations.
package travel

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/prompts"

	"pdf-embed/internal/llmservice"
	"pdf-embed/internal/models"
)

// Prompts are Go templates; Preferences sees {{.city}} and Recommendations
// sees {{.preferences}}.
type Prompts struct {
	Preferences     string `yaml:"preferences"`
	Recommendations string `yaml:"recommendations"`
}

func DefaultPrompts() Prompts {
	return Prompts{
		Preferences:     models.PreferencesPromptTemplate,
		Recommendations: models.RecommendationPromptTemplate,
	}
}

type Plan struct {
	City            string
	Preferences     string
	Recommendations string
}

type Agent struct {
	preferences     llmservice.Generator
	recommendations llmservice.Generator
	prompts         Prompts
}

// NewAgent wires two generators; recommendations falls back to preferences when nil
func NewAgent(preferences, recommendations llmservice.Generator, p Prompts) *Agent {
	if recommendations == nil {
		recommendations = preferences
	}
	defaults := DefaultPrompts()
	if p.Preferences == "" {
		p.Preferences = defaults.Preferences
	}
	if p.Recommendations == "" {
		p.Recommendations = defaults.Recommendations
	}
	return &Agent{preferences: preferences, recommendations: recommendations, prompts: p}
}

func (a *Agent) AskPreferences(ctx context.Context, city string) (string, error) {
	prompt, err := render(a.prompts.Preferences, "city", city)
	if err != nil {
		return "", err
	}
	log.Info().Str("city", city).Msg("Gathering preferences")
	return a.preferences.Generate(ctx, prompt)
}

func (a *Agent) Recommend(ctx context.Context, preferences string) (string, error) {
	prompt, err := render(a.prompts.Recommendations, "preferences", preferences)
	if err != nil {
		return "", err
	}
	log.Info().Msg("Generating recommendations")
	return a.recommendations.Generate(ctx, prompt)
}

// Run gathers preferences for city and feeds them into Recommend
func (a *Agent) Run(ctx context.Context, city string) (*Plan, error) {
	prefs, err := a.AskPreferences(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("preferences for %s: %w", city, err)
	}
	recs, err := a.Recommend(ctx, prefs)
	if err != nil {
		return nil, fmt.Errorf("recommendations for %s: %w", city, err)
	}
	return &Plan{City: city, Preferences: prefs, Recommendations: recs}, nil
}

func render(template, key, value string) (string, error) {
	tmpl := prompts.NewPromptTemplate(template, []string{key})
	out, err := tmpl.Format(map[string]any{key: value})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return out, nil
}
