package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// GetLoadedPrompts returns the loaded prompt content
func GetLoadedPrompts() *AllLoadedPrompts {
	return &loadedPrompts
}

// loadPromptsFromFiles loads custom prompts from external files if file paths are specified
func (c *Config) loadPromptsFromFiles() error {
	log.Println("[CONFIG] Starting custom prompt loading from files")

	// Initialize loaded prompts exactly once
	loadedPromptsOnce.Do(func() {
		loadedPrompts = AllLoadedPrompts{}
	})

	// Load global prompts
	if c.AI.CustomPrompts.SystemPrompts.OptimizeResumeFile != "" {
		content, err := c.loadPromptFromFile(c.AI.CustomPrompts.SystemPrompts.OptimizeResumeFile, "system", "optimizeResume")
		if err != nil {
			return fmt.Errorf("failed to load global system prompts: %w", err)
		}
		loadedPrompts.Global.SystemPrompts.OptimizeResume = content
	}
	if c.AI.CustomPrompts.UserPrompts.OptimizeResumeFile != "" {
		content, err := c.loadPromptFromFile(c.AI.CustomPrompts.UserPrompts.OptimizeResumeFile, "user", "optimizeResume")
		if err != nil {
			return fmt.Errorf("failed to load global user prompts: %w", err)
		}
		loadedPrompts.Global.UserPrompts.OptimizeResume = content
	}

	// Load operation-specific prompts
	if c.AI.Optimize.CustomPrompts.SystemPrompts.OptimizeResumeFile != "" {
		content, err := c.loadPromptFromFile(c.AI.Optimize.CustomPrompts.SystemPrompts.OptimizeResumeFile, "system", "optimizeResume")
		if err != nil {
			return fmt.Errorf("failed to load optimize system prompts: %w", err)
		}
		loadedPrompts.Optimize.SystemPrompts.OptimizeResume = content
	}
	if c.AI.Optimize.CustomPrompts.UserPrompts.OptimizeResumeFile != "" {
		content, err := c.loadPromptFromFile(c.AI.Optimize.CustomPrompts.UserPrompts.OptimizeResumeFile, "user", "optimizeResume")
		if err != nil {
			return fmt.Errorf("failed to load optimize user prompts: %w", err)
		}
		loadedPrompts.Optimize.UserPrompts.OptimizeResume = content
	}

	c.logPromptLoadingSummary()

	return nil
}

// loadPromptFromFile loads a prompt from a file with proper error handling and logging
func (c *Config) loadPromptFromFile(filePath, promptType, operation string) (string, error) {
	// Resolve relative paths
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, operation, filePath, err)
	}

	// Check if file exists
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, operation, absPath)
	}

	// Read file content
	content, err := os.ReadFile(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, operation, absPath, err)
	}

	// Validate content is not empty
	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, operation, absPath)
	}

	// Log successful loading
	log.Printf("[CONFIG] Successfully loaded %s %s prompt from file: %s (%d characters)",
		promptType, operation, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles validates that prompt files exist and are readable before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	validateFile := func(filePath, promptType, operation string) {
		if filePath == "" {
			return // No file specified, skip validation
		}

		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", promptType, operation, filePath))
			return
		}

		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", promptType, operation, absPath))
		}
	}

	// Validate global prompt files
	validateFile(c.AI.CustomPrompts.SystemPrompts.OptimizeResumeFile, "system", "optimizeResume")
	validateFile(c.AI.CustomPrompts.UserPrompts.OptimizeResumeFile, "user", "optimizeResume")

	// Validate operation-specific prompt files
	validateFile(c.AI.Optimize.CustomPrompts.SystemPrompts.OptimizeResumeFile, "optimize system", "optimizeResume")
	validateFile(c.AI.Optimize.CustomPrompts.UserPrompts.OptimizeResumeFile, "optimize user", "optimizeResume")

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}

	return nil
}

// logPromptLoadingSummary logs a summary of loaded prompts
func (c *Config) logPromptLoadingSummary() {
	log.Println("[CONFIG] === Custom Prompt Loading Summary ===")

	promptCount := 0
	promptChecks := []struct {
		content string
		message string
	}{
		{loadedPrompts.Global.SystemPrompts.OptimizeResume, "[CONFIG] Global system optimize prompt: loaded from config/file"},
		{loadedPrompts.Global.UserPrompts.OptimizeResume, "[CONFIG] Global user optimize prompt: loaded from config/file"},
		{loadedPrompts.Optimize.SystemPrompts.OptimizeResume, "[CONFIG] Optimize-specific system prompt: loaded from config/file"},
		{loadedPrompts.Optimize.UserPrompts.OptimizeResume, "[CONFIG] Optimize-specific user prompt: loaded from config/file"},
	}

	for _, check := range promptChecks {
		if check.content != "" {
			log.Println(check.message)
			promptCount++
		}
	}

	if promptCount == 0 {
		log.Println("[CONFIG] No custom prompts loaded - using built-in defaults")
	} else {
		log.Printf("[CONFIG] Total custom prompts loaded: %d", promptCount)
	}

	log.Println("[CONFIG] ==========================================")
}
