package workspace

import "fmt"

// MaxLevel is the last playable level.
const MaxLevel = 3

// LevelConfig describes how a level's secret pattern is generated.
type LevelConfig struct {
	Number        int
	PatternLength int
	// Reversed stores the generated digits in reverse order. Since every
	// digit is drawn independently this does not change the distribution.
	Reversed    bool
	Description string
}

var levels = [MaxLevel]LevelConfig{
	{Number: 1, PatternLength: 2, Description: "Find a 2-digit pattern"},
	{Number: 2, PatternLength: 3, Description: "Find a 3-digit pattern"},
	{Number: 3, PatternLength: 3, Reversed: true, Description: "Find a 3-digit pattern in reverse order"},
}

// Level returns the configuration for level n.
func Level(n int) (LevelConfig, error) {
	if n < 1 || n > MaxLevel {
		return LevelConfig{}, fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidLevel, n, MaxLevel)
	}

	return levels[n-1], nil
}

// Levels returns all level configurations in order.
func Levels() []LevelConfig {
	out := make([]LevelConfig, len(levels))
	copy(out, levels[:])

	return out
}

// generateSecret draws cfg.PatternLength digits from src.
func generateSecret(cfg LevelConfig, src Source) []Digit {
	secret := make([]Digit, cfg.PatternLength)
	for i := range secret {
		secret[i] = randomDigit(src)
	}

	if cfg.Reversed {
		for i, j := 0, len(secret)-1; i < j; i, j = i+1, j-1 {
			secret[i], secret[j] = secret[j], secret[i]
		}
	}

	return secret
}
