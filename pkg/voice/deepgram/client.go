package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.deepgram.com/v1"

// ErrDisabled is returned by every call when the client was built
// without an API key. The host process keeps running; only the voice
// feature is unavailable.
var ErrDisabled = errors.New("deepgram api key is not configured")

// IClient is the speech gateway contract: text-to-speech as a byte
// stream and prerecorded speech-to-text.
type IClient interface {
	Synthesize(ctx context.Context, text, language string) (io.ReadCloser, error)
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
	Enabled() bool
}

type Client struct {
	BaseURL  string
	APIKey   string
	TTSModel string
	STTModel string
	Client   *http.Client

	attempts int
	backoff  time.Duration
}

var _ IClient = &Client{}

func NewClient(apiKey, ttsModel, sttModel string) *Client {
	if ttsModel == "" {
		ttsModel = "aura-asteria-en"
	}
	if sttModel == "" {
		sttModel = "nova-2"
	}
	return &Client{
		BaseURL:  defaultBaseURL,
		APIKey:   apiKey,
		TTSModel: ttsModel,
		STTModel: sttModel,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
		attempts: 3,
		backoff:  1 * time.Second,
	}
}

func (c *Client) Enabled() bool {
	return c.APIKey != ""
}

type speakRequest struct {
	Text string `json:"text"`
}

// Synthesize requests 16-bit linear PCM in a WAV container and returns
// the response body unbuffered, so the caller can forward chunks as
// they arrive. The caller owns closing the stream.
//
// Aura voices are per-language models; until a matching voice exists
// for the requested language the configured default model is used.
func (c *Client) Synthesize(ctx context.Context, text, language string) (io.ReadCloser, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	payload, err := json.Marshal(speakRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	q := url.Values{}
	q.Set("model", c.TTSModel)
	q.Set("encoding", "linear16")
	q.Set("container", "wav")
	endpoint := c.BaseURL + "/speak?" + q.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Token "+c.APIKey)

		resp, err := c.Client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			return resp.Body, nil
		}

		if err != nil {
			lastErr = fmt.Errorf("deepgram speak request failed: %w", err)
		} else {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("deepgram speak error: status %d, body: %s", resp.StatusCode, string(body))
		}

		if attempt == c.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
	return nil, lastErr
}

type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe sends prerecorded audio for transcription with automatic
// language detection and smart formatting. Silence yields an empty
// transcript, not an error.
func (c *Client) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	if contentType == "" {
		contentType = "audio/webm"
	}

	q := url.Values{}
	q.Set("model", c.STTModel)
	q.Set("smart_format", "true")
	q.Set("detect_language", "true")
	endpoint := c.BaseURL + "/listen?" + q.Encode()

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(audio))
		if err != nil {
			return "", fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Token "+c.APIKey)

		resp, err := c.Client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("deepgram listen request failed: %w", err)
		} else {
			body, readErr := io.ReadAll(resp.Body)
			resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("read response: %w", readErr)
			case resp.StatusCode != http.StatusOK:
				lastErr = fmt.Errorf("deepgram listen error: status %d, body: %s", resp.StatusCode, string(body))
			default:
				var parsed listenResponse
				if err := json.Unmarshal(body, &parsed); err != nil {
					return "", fmt.Errorf("unmarshal response: %w", err)
				}
				if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
					return "", nil
				}
				return parsed.Results.Channels[0].Alternatives[0].Transcript, nil
			}
		}

		if attempt == c.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
	return "", lastErr
}
