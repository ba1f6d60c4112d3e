package entity

import "slices"

// Problem carries only the fields submission intake needs: the per-problem
// limits. Statement, samples and course linkage are read elsewhere.
type Problem struct {
	ID                string   // Problem identifier.
	CodeSizeLimitByte int64    // Maximum accepted code size in UTF-8 bytes.
	TimeLimitMs       int64    // Grading time limit.
	MemoryLimitByte   int64    // Grading memory limit.
	LanguageLimit     []string // Languages accepted for this problem.
}

// AllowsLanguage reports whether the problem accepts the given language.
func (p *Problem) AllowsLanguage(language string) bool {
	return slices.Contains(p.LanguageLimit, language)
}
