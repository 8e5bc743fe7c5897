package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/echomind/echomind_server/config"
)

// Client ElevenLabs 声音克隆/合成客户端
type Client struct {
	apiKey          string
	baseURL         string
	modelID         string
	stability       float64
	similarityBoost float64
	http            *http.Client
}

func NewClient(cfg *config.ElevenLabsConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		apiKey:          cfg.APIKey,
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		modelID:         cfg.ModelID,
		stability:       cfg.Stability,
		similarityBoost: cfg.SimilarityBoost,
		http:            &http.Client{Timeout: timeout},
	}
}

// Configured 是否配置了有效的 API Key（ElevenLabs 正式 key 以 sk_ 开头）
func (c *Client) Configured() bool {
	return strings.HasPrefix(c.apiKey, "sk_")
}

// CloneVoice 用音频样本创建声音克隆，返回 voice_id
func (c *Client) CloneVoice(ctx context.Context, name string, audio []byte, mimeType string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("name", name); err != nil {
		return "", err
	}
	if err := writer.WriteField("description", "EchoMind user voice clone"); err != nil {
		return "", err
	}

	part, err := writer.CreateFormFile("files", "voice_sample"+extFor(mimeType))
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/voices/add", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("elevenlabs clone request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("elevenlabs clone returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		VoiceID string `json:"voice_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode clone response: %w", err)
	}
	if parsed.VoiceID == "" {
		return "", fmt.Errorf("elevenlabs clone returned empty voice_id")
	}
	return parsed.VoiceID, nil
}

// TextToSpeech 用指定克隆声音合成语音，返回 mp3 字节
func (c *Client) TextToSpeech(ctx context.Context, text, voiceID string) ([]byte, error) {
	payload := map[string]interface{}{
		"text":     text,
		"model_id": c.modelID,
		"voice_settings": map[string]float64{
			"stability":        c.stability,
			"similarity_boost": c.similarityBoost,
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("elevenlabs tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("elevenlabs tts returned %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}

// DeleteVoice 删除克隆声音
func (c *Client) DeleteVoice(ctx context.Context, voiceID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/v1/voices/"+voiceID, nil)
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("elevenlabs delete request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("elevenlabs delete returned %d", resp.StatusCode)
	}
	return nil
}

func extFor(mimeType string) string {
	switch mimeType {
	case "audio/webm":
		return ".webm"
	case "audio/wav":
		return ".wav"
	case "audio/mp4":
		return ".m4a"
	default:
		return ".mp3"
	}
}
