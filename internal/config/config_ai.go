package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetOptimizeConfig returns the AI configuration for optimize operations with
// fallback to the global AI config
func (c *Config) GetOptimizeConfig() OperationAIConfig {
	config := c.AI.Optimize

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply optimize-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.OptimizeResume == "" {
		config.CustomPrompts.SystemPrompts.OptimizeResume = c.AI.CustomPrompts.SystemPrompts.OptimizeResume
	}
	if config.CustomPrompts.UserPrompts.OptimizeResume == "" {
		config.CustomPrompts.UserPrompts.OptimizeResume = c.AI.CustomPrompts.UserPrompts.OptimizeResume
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.OptimizeResumeFile == "" {
		config.CustomPrompts.SystemPrompts.OptimizeResumeFile = c.AI.CustomPrompts.SystemPrompts.OptimizeResumeFile
	}
	if config.CustomPrompts.UserPrompts.OptimizeResumeFile == "" {
		config.CustomPrompts.UserPrompts.OptimizeResumeFile = c.AI.CustomPrompts.UserPrompts.OptimizeResumeFile
	}

	return config
}

// GetLoadedOptimizePrompts returns a copy of the loaded prompts for the
// optimize operation
func (c *Config) GetLoadedOptimizePrompts() OperationLoadedPrompts {
	return loadedPrompts.Optimize
}

// GetLoadedGlobalPrompts returns a copy of the loaded global prompts
func (c *Config) GetLoadedGlobalPrompts() LoadedPrompts {
	return loadedPrompts.Global
}
