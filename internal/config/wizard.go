package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to stratos! Let's configure the reasoning service.")
	fmt.Println()

	// 1. Provider selection.
	providerPrompt := promptui.Select{
		Label: "Select LLM provider",
		Items: []string{"google", "openai", "anthropic", "ollama"},
	}
	_, providerStr, err := providerPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("provider selection: %w", err)
	}
	provider := ProviderType(providerStr)

	// 2. Quality tier.
	tiers := []QualityTier{QualityLite, QualityNormal, QualityMax}
	items := make([]string, len(tiers))
	for i, tier := range tiers {
		items[i] = fmt.Sprintf("%-6s (%s)", tier, GetPreset(provider, tier).Model)
	}
	qualityPrompt := promptui.Select{
		Label:     "Select quality tier",
		Items:     items,
		CursorPos: 1,
	}
	qualityIdx, _, err := qualityPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("quality selection: %w", err)
	}
	quality := tiers[qualityIdx]

	// 3. Rate limit.
	cfg := DefaultConfig()
	rpmPrompt := promptui.Prompt{
		Label:    "Requests per minute (0 for unlimited)",
		Default:  strconv.Itoa(cfg.RequestsPerMinute),
		Validate: validateNonNegativeInt,
	}
	rpmStr, err := rpmPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("requests per minute: %w", err)
	}
	rpm, _ := strconv.Atoi(rpmStr)

	cfg.Provider = provider
	cfg.Quality = quality
	cfg.Model = GetPreset(provider, quality).Model
	cfg.RequestsPerMinute = rpm

	// Check for API key.
	envVar := APIKeyEnvVar(provider)
	if envVar != "" {
		if os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment or .env before running stratos.\n", envVar)
		}
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func validateNonNegativeInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("enter a whole number")
	}
	if n < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}
