package ai

import "strings"

// Style names a preset prompt template.
type Style string

const (
	StyleExecutive   Style = "executive"
	StyleActionItems Style = "action-items"
	StyleTechnical   Style = "technical"
	StyleCustom      Style = "custom"
)

const (
	systemPrompt = "You are an expert meeting summarizer. Create clear, concise, and well-structured summaries based on the provided transcript and prompt."

	defaultCustomPrompt = "Create a comprehensive summary of the meeting covering main topics, decisions, and key takeaways."

	temperature = 0.3
	maxTokens   = 2000
)

// StyleInfo is one entry of the style catalogue.
type StyleInfo struct {
	ID          Style  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

var styles = []StyleInfo{
	{
		ID:          StyleExecutive,
		Name:        "Executive Summary",
		Description: "High-level summary with key decisions and business impact",
		Prompt:      "Create an executive summary with key points, decisions made, and next steps. Focus on high-level insights and business impact.",
	},
	{
		ID:          StyleActionItems,
		Name:        "Action Items",
		Description: "Extract all action items, assignments, and deadlines",
		Prompt:      "Extract all action items, assignments, and deadlines from the meeting. Organize by person responsible and priority.",
	},
	{
		ID:          StyleTechnical,
		Name:        "Technical Notes",
		Description: "Technical discussions, specifications, and implementation details",
		Prompt:      "Provide a technical summary focusing on technical discussions, specifications, architecture decisions, and implementation details.",
	},
	{
		ID:          StyleCustom,
		Name:        "Custom",
		Description: "Use your own custom prompt",
		Prompt:      "",
	},
}

// Styles returns the fixed style catalogue.
func Styles() []StyleInfo {
	out := make([]StyleInfo, len(styles))
	copy(out, styles)
	return out
}

// StylePrompt resolves the prompt used for style. Custom and unrecognised
// styles use the caller's prompt, falling back to a generic one when blank.
func StylePrompt(style Style, customPrompt string) string {
	if style != StyleCustom {
		for _, s := range styles {
			if s.ID == style {
				return s.Prompt
			}
		}
	}
	if strings.TrimSpace(customPrompt) != "" {
		return customPrompt
	}
	return defaultCustomPrompt
}

func userMessage(transcript, prompt string) string {
	return "Transcript: " + transcript + "\n\nPrompt: " + prompt +
		"\n\nPlease provide a summary based on the above transcript and prompt."
}
