package validation

import (
	"fmt"
	"regexp"
)

// BranchNamePattern определяет допустимый формат имени ветви истории
// Латинские буквы (a-z, A-Z), цифры (0-9), подчеркивание (_), дефис (-), точка (.)
// Длина: 1-64 символа
var BranchNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,64}$`)

const (
	// MinBranchNameLen минимальная длина имени ветви
	MinBranchNameLen = 1
	// MaxBranchNameLen максимальная длина имени ветви
	MaxBranchNameLen = 64
)

// ValidateBranchName проверяет, что имя ветви соответствует требованиям
// Формат: латинские буквы (a-z, A-Z), цифры (0-9), подчеркивание (_), дефис (-), точка (.)
// Длина: 1-64 символа
func ValidateBranchName(name string) error {
	if name == "" {
		return fmt.Errorf("branch name cannot be empty")
	}

	if len(name) > MaxBranchNameLen {
		return fmt.Errorf("branch name must not exceed %d characters", MaxBranchNameLen)
	}

	if !BranchNamePattern.MatchString(name) {
		return fmt.Errorf("branch name can only contain letters (a-z, A-Z), numbers (0-9), underscores (_), hyphens (-), and dots (.)")
	}

	return nil
}
