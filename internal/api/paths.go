// Package api provides the Gemini generative language API client.
package api

import "fmt"

// DefaultBaseURL is the Gemini API host.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// GJSON paths for extracting values from generateContent responses.
const (
	// Success response paths
	PathFirstParts    = "candidates.0.content.parts"
	PathFirstPartText = "candidates.0.content.parts.0.text"
	PathBlockReason   = "promptFeedback.blockReason"
	PathFinishReason  = "candidates.0.finishReason"

	// Error response paths
	PathErrorCode    = "error.code"
	PathErrorMessage = "error.message"
	PathErrorStatus  = "error.status"
)

// generateEndpoint builds the generateContent URL for a model.
func generateEndpoint(baseURL, model string) string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent", baseURL, model)
}

// defaultHeaders returns the headers sent with every request.
func defaultHeaders(apiKey string) map[string]string {
	return map[string]string{
		"Content-Type":   "application/json",
		"Accept":         "application/json",
		"x-goog-api-key": apiKey,
	}
}
