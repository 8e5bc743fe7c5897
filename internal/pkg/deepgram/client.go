package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/echomind/echomind_server/config"
)

// Client Deepgram 语音识别客户端
type Client struct {
	apiKey   string
	baseURL  string
	model    string
	language string
	http     *http.Client
}

func NewClient(cfg *config.DeepgramConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:   cfg.APIKey,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		model:    cfg.Model,
		language: cfg.Language,
		http:     &http.Client{Timeout: timeout},
	}
}

// Configured 是否配置了 API Key
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// listenResponse Deepgram /v1/listen 响应的相关字段
type listenResponse struct {
	Results struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string  `json:"transcript"`
				Confidence float64 `json:"confidence"`
				Words      []struct {
					Word       string  `json:"word"`
					Confidence float64 `json:"confidence"`
				} `json:"words"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// TranscriptWord 识别结果中的单词及置信度
type TranscriptWord struct {
	Word       string
	Confidence float64
}

// Transcript 识别结果
type Transcript struct {
	Text  string
	Words []TranscriptWord
}

// Transcribe 上传音频字节做语音识别，取第一条 alternative
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (*Transcript, error) {
	q := url.Values{}
	q.Set("model", c.model)
	q.Set("language", c.language)
	endpoint := fmt.Sprintf("%s/v1/listen?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(audio))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("Content-Type", mimeType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepgram request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("deepgram returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed listenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode deepgram response: %w", err)
	}

	if len(parsed.Results.Channels) == 0 || len(parsed.Results.Channels[0].Alternatives) == 0 {
		return &Transcript{}, nil
	}

	alt := parsed.Results.Channels[0].Alternatives[0]
	t := &Transcript{Text: alt.Transcript}
	for _, w := range alt.Words {
		t.Words = append(t.Words, TranscriptWord{Word: w.Word, Confidence: w.Confidence})
	}
	return t, nil
}
