package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/rs/zerolog/log"

	"pdf-embed/internal/config"
	"pdf-embed/internal/helper"
	"pdf-embed/internal/llmservice"
	"pdf-embed/internal/travel"
)

func main() {
	configPath := flag.String("config", "./configs/config.yaml", "Path to the config file")
	city := flag.String("city", "New York", "City to plan a trip to")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		helper.InitLogger("info")
		log.Fatal().Err(err).Msg("Error loading config")
	}
	helper.InitLogger(cfg.LogLevel)

	t := cfg.TravelLLM
	prefs, err := llmservice.NewGenerator(&t.Preferences, t.MaxTokens, t.SamplingTemperature())
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing preferences model")
	}
	recs, err := llmservice.NewGenerator(&t.Recommendations, t.MaxTokens, t.SamplingTemperature())
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing recommendations model")
	}

	agent := travel.NewAgent(prefs, recs, travel.DefaultPrompts())
	plan, err := agent.Run(context.Background(), *city)
	if err != nil {
		log.Fatal().Err(err).Msg("Error planning trip")
	}

	log.Info().Msg("Preferences: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", plan.Preferences)

	log.Info().Msg("Recommendations: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", plan.Recommendations)
}
