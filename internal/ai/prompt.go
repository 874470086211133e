package ai

import (
	"strings"

	"github.com/shinyyama/headshot-studio/internal/style"
)

// DefaultInstruction is used when the custom style is chosen with blank text.
const DefaultInstruction = "optimize this image to look more professional"

const headshotDirective = `Edit this image to create a high-quality professional headshot.
Preserve the person's facial identity and main features strictly.`

const outputDirective = `Output a photorealistic, high-resolution image.`

// BuildInstruction derives the edit instruction for the chosen style.
// Custom text is trimmed only for the custom style; preset styles always get
// "<modifier> <customText>" even when customText is empty.
func BuildInstruction(opt style.Option, customText string) string {
	if opt.IsCustom() {
		text := strings.TrimSpace(customText)
		if text == "" {
			return DefaultInstruction
		}
		return text
	}
	return opt.PromptModifier + " " + customText
}

// ComposePrompt wraps the instruction with the fixed headshot directives.
func ComposePrompt(instruction string) string {
	parts := []string{headshotDirective, instruction, outputDirective}
	return strings.Join(parts, "\n")
}
