package models

const (
	DefaultSentencesPerChunk = 10
	DefaultEmbeddingProvider = "ollama"
	DefaultEmbeddingModel    = "nomic-embed-text"
	DefaultEmbeddingBaseURL  = "http://localhost:11434"
	DefaultEmbeddingDims     = 768
	DefaultBatchSize         = 32
	DefaultOutputPath        = "./embeddings/embeddings.csv"
	DefaultPDFBackend        = "ledongthuc"
	DefaultMaxTokens         = 150
	DefaultTemperature       = 0.7

	// 1 token is roughly 4 characters of English text.
	CharsPerToken = 4
)

var (
	PreferencesPromptTemplate = `What are your preferences for hotels, activities, and restaurants in {{.city}}?`

	RecommendationPromptTemplate = `Based on the following preferences: {{.preferences}}, provide a list of recommended hotels, activities, restaurants, and events in the city.`
)
