// Package gemini calls the generative-language API to produce a reply for
// an assembled conversation prompt.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

const defaultEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// Fallback replies substituted when the API cannot produce a real one. They
// are returned as ordinary reply text: the run continues, and the fallback is
// both emailed and recorded in the thread history like any other reply.
const (
	// FallbackAPIError covers non-200 responses and malformed response bodies.
	FallbackAPIError = "אירעה שגיאה בעת יצירת התגובה."
	// FallbackTransportError covers network-level failures.
	FallbackTransportError = "שגיאה פנימית בתקשורת עם Gemini."
)

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

// Client is a synchronous client for the generateContent endpoint.
type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// NewClient creates a Gemini client using the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		client:   &http.Client{},
	}
}

// NewClientWithEndpoint creates a client against a non-default endpoint.
// Used by tests to point at a local server.
func NewClientWithEndpoint(apiKey, endpoint string) *Client {
	c := NewClient(apiKey)
	c.endpoint = endpoint
	return c
}

// Generate sends the prompt as the sole content unit and returns the first
// candidate's text. Failures never propagate as errors: they are logged and
// replaced with a fixed fallback reply so the run can continue.
func (c *Client) Generate(ctx context.Context, prompt string) string {
	reqBody := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		log.Printf("Error encoding Gemini request: %v", err)
		return FallbackTransportError
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		log.Printf("Error building Gemini request: %v", err)
		return FallbackTransportError
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("Error contacting Gemini API: %v", err)
		return FallbackTransportError
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("Error reading Gemini response: %v", err)
		return FallbackTransportError
	}

	if resp.StatusCode != http.StatusOK {
		log.Printf("Gemini API error (status %d): %s", resp.StatusCode, body)
		return FallbackAPIError
	}

	reply, err := extractReply(body)
	if err != nil {
		log.Printf("Error decoding Gemini response: %v", err)
		return FallbackAPIError
	}

	return reply
}

// extractReply pulls the first candidate's first part out of a 200 response.
func extractReply(body []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("response contains no candidates")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
