// Package token estimates and counts tokens for context-budget checks.
//
// Globs can pull in a lot of text, and exact BPE tokenization is not free,
// so callers first take the cheap character-count estimate and only pay for
// a precise count when the estimate lands near the budget.
package token

import (
	"sync"

	"github.com/tiktoken-go/tokenizer"
)

// estimateCharsPerToken is the character-count heuristic divisor. English
// prose and code both average out near 4 characters per token.
const estimateCharsPerToken = 4

// Estimate returns a cheap token estimate for text without tokenizing.
func Estimate(text string) int {
	return len(text) / estimateCharsPerToken
}

var (
	codecOnce sync.Once
	codec     tokenizer.Codec
	codecErr  error
)

// Count returns the precise token count for text using the cl100k BPE.
// The codec is built once and reused; it is safe for concurrent use.
func Count(text string) (int, error) {
	codecOnce.Do(func() {
		codec, codecErr = tokenizer.Get(tokenizer.Cl100kBase)
	})
	if codecErr != nil {
		return 0, codecErr
	}

	ids, _, err := codec.Encode(text)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}
