package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	"github.com/lucas/huechat/internal/chat"
	apierrors "github.com/lucas/huechat/internal/errors"
)

// part mirrors the API's Part object
type part struct {
	Text string `json:"text"`
}

// content mirrors the API's Content object
type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

// generateRequest is the generateContent request payload
type generateRequest struct {
	Contents []content `json:"contents"`
}

// Complete sends the prompt to the generateContent endpoint and returns the
// response text. An empty history issues a single-turn completion; otherwise
// the full prior transcript is sent ahead of the prompt, in order.
func (c *Client) Complete(ctx context.Context, apiKey, prompt string, history []chat.Turn) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	if c.IsClosed() {
		return "", apierrors.ErrClientMissing
	}

	if apiKey == "" {
		return "", apierrors.ErrNoAPIKey
	}

	model := c.GetModel()
	endpoint := generateEndpoint(c.getBaseURL(), model)

	payload, err := buildRequestBody(prompt, history)
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers
	for key, value := range defaultHeaders(apiKey) {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkErrorWithEndpoint("generate content", endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode != 200 {
		// Read response body for error diagnostics
		errorBody := make([]byte, 0, 4096)
		buf := make([]byte, 1024)
		for {
			n, readErr := resp.Body.Read(buf)
			if n > 0 {
				errorBody = append(errorBody, buf[:n]...)
				// Limit error body to 4KB for safety
				if len(errorBody) >= 4096 {
					break
				}
			}
			if readErr != nil {
				break
			}
		}
		return "", classifyErrorResponse(resp.StatusCode, endpoint, errorBody)
	}

	// Read response body
	body := make([]byte, 0, 65536)
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			body = append(body, buf[:n]...)
		}
		if err != nil {
			break
		}
	}

	return parseResponse(body)
}

// buildRequestBody creates the JSON payload for the generate request
func buildRequestBody(prompt string, history []chat.Turn) ([]byte, error) {
	contents := make([]content, 0, len(history)+1)
	for _, turn := range history {
		contents = append(contents, content{
			Role:  roleName(turn.Role),
			Parts: []part{{Text: turn.Content}},
		})
	}
	contents = append(contents, content{
		Role:  "user",
		Parts: []part{{Text: prompt}},
	})

	return json.Marshal(generateRequest{Contents: contents})
}

// roleName maps a transcript role onto the API's role field
func roleName(role chat.Role) string {
	if role == chat.RoleModel {
		return "model"
	}
	return "user"
}

// classifyErrorResponse maps an error response onto the error taxonomy
func classifyErrorResponse(statusCode int, endpoint string, body []byte) error {
	parsed := gjson.ParseBytes(body)
	message := parsed.Get(PathErrorMessage).String()
	status := parsed.Get(PathErrorStatus).String()
	if message == "" {
		message = "generate content failed"
	}
	return apierrors.Classify(statusCode, status, message, endpoint, string(body))
}

// parseResponse extracts the response text from a generateContent response.
// Interpretation order: direct text on the first candidate, then a
// concatenation of its text fragments, then a block reason, then empty.
func parseResponse(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("no valid JSON in response", "")
	}

	parsed := gjson.ParseBytes(body)

	parts := parsed.Get(PathFirstParts)
	if parts.IsArray() {
		// Single-part responses expose the text directly
		if len(parts.Array()) == 1 {
			if text := parsed.Get(PathFirstPartText); text.String() != "" {
				return text.String(), nil
			}
		}

		// Concatenate any text fragments across the candidate's parts
		var sb strings.Builder
		parts.ForEach(func(_, partValue gjson.Result) bool {
			sb.WriteString(partValue.Get("text").String())
			return true
		})
		if sb.Len() > 0 {
			return sb.String(), nil
		}
	}

	// Blocked prompt or safety-stopped candidate
	if reason := parsed.Get(PathBlockReason); reason.String() != "" {
		return "", apierrors.NewBlockedError(reason.String())
	}
	if finish := parsed.Get(PathFinishReason); finish.Exists() {
		switch finish.String() {
		case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII":
			return "", apierrors.NewBlockedError(finish.String())
		}
	}

	return "", apierrors.ErrEmptyResponse
}
