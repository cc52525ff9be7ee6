package generator

import "fmt"

const promptTemplate = "Generate a %d-slide presentation for the topic '%s'. " +
	"For each slide include: 1. A header 2. Content (50-60 words) 3. Source citation. " +
	"Return as JSON array with keys 'header', 'content', and 'citation'."

// BuildPrompt returns the single prompt sent to the backend.
func BuildPrompt(topic string, n int) string {
	return fmt.Sprintf(promptTemplate, n, topic)
}
