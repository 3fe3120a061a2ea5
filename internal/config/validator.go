package config

import (
	"fmt"

	blockscanerrors "github.com/standardbeagle/blockscan/internal/errors"
)

// Validator checks a loaded Config for values the walker/rank/format
// collaborators cannot operate on safely.
type Validator struct{}

func NewValidator() *Validator { return &Validator{} }

func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if cfg.Root == "" {
		return blockscanerrors.NewConfigError("root", "", fmt.Errorf("project root cannot be empty"))
	}
	if cfg.MergeGap < 0 {
		return blockscanerrors.NewConfigError("merge_gap", fmt.Sprint(cfg.MergeGap), fmt.Errorf("merge_gap cannot be negative"))
	}
	if cfg.Budgets.MaxResults < 0 {
		return blockscanerrors.NewConfigError("budgets.max_results", fmt.Sprint(cfg.Budgets.MaxResults), fmt.Errorf("max_results cannot be negative"))
	}
	if cfg.Budgets.MaxBytes < 0 {
		return blockscanerrors.NewConfigError("budgets.max_bytes", fmt.Sprint(cfg.Budgets.MaxBytes), fmt.Errorf("max_bytes cannot be negative"))
	}
	if cfg.Budgets.MaxTokens < 0 {
		return blockscanerrors.NewConfigError("budgets.max_tokens", fmt.Sprint(cfg.Budgets.MaxTokens), fmt.Errorf("max_tokens cannot be negative"))
	}

	if cfg.Budgets.MaxResults == 0 {
		cfg.Budgets.MaxResults = 100
	}
	return nil
}

func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
