package bot

// Config represents the configuration for the bot
type Config struct {
	// Number of wrong choices shown per multiple-choice question
	Distractors int
	// Maximum sets listed per page of the /sets keyboard
	SetsPerPage int
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *Config {
	return &Config{
		Distractors: 3,
		SetsPerPage: 10,
	}
}
