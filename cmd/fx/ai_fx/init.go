package ai_fx

import (
	"log"
	"os"
	"strings"
	"waylit/pkg/utils"

	"go.uber.org/fx"
)

var Module = fx.Provide(ProvideChatClient)

// ChatConfig holds configuration for the generative chat client
type ChatConfig struct {
	Provider string
	APIKey   string
	Model    string
}

// ProvideChatClient creates a chat client based on environment variables
func ProvideChatClient() (utils.ChatClientInterface, error) {
	config := getChatConfig()

	log.Printf("Initializing %s chat client with model: %s", config.Provider, config.Model)

	return utils.NewChatClient(config.Provider, config.APIKey, config.Model)
}

// getChatConfig reads configuration from environment variables
func getChatConfig() ChatConfig {
	provider := getEnvWithDefault("CHAT_PROVIDER", "gemini")

	var apiKey, model string

	switch strings.ToLower(provider) {
	case "openai":
		apiKey = os.Getenv("OPENAI_API_KEY")
		model = getEnvWithDefault("OPENAI_MODEL", "gpt-4o-mini")
		if apiKey == "" {
			log.Fatal("OPENAI_API_KEY is required when using OpenAI provider")
		}
	case "gemini":
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
		if apiKey == "" {
			log.Fatal("GEMINI_API_KEY is required when using Gemini provider")
		}
	}

	return ChatConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	}
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
