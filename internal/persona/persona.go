// Package persona holds the fixed system instruction that establishes the
// assistant's dialogic style. The instruction is prepended to every
// provider request; it is never stored in session history.
package persona

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Default is the built-in Socratic tutor instruction.
const Default = "You are a Socratic teacher engaging in thoughtful dialogue. " +
	"Your goal is to help users think deeply by asking probing questions rather than providing direct answers. " +
	"Guide them through their reasoning process, challenge assumptions gently, and encourage critical thinking. " +
	"Keep responses concise and conversational."

// Prompt represents the structure of a TOML persona file.
type Prompt struct {
	System string `toml:"system"`
}

// Load reads a persona file and returns its system instruction.
func Load(filePath string) (string, error) {
	var prompt Prompt
	if _, err := toml.DecodeFile(filePath, &prompt); err != nil {
		return "", fmt.Errorf("error decoding persona file: %v", err)
	}
	if prompt.System == "" {
		return "", fmt.Errorf("persona file %s has no system prompt", filePath)
	}
	return prompt.System, nil
}
