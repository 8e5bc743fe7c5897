package dictapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound 词典中没有该单词
var ErrNotFound = errors.New("word not found in dictionary")

// Client 免费词典 API（dictionaryapi.dev）客户端
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: "https://api.dictionaryapi.dev",
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// NewClientWithBaseURL 测试用
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Entry 词条
type Entry struct {
	Word     string
	Phonetic string
	AudioURL string
	Meanings []Meaning
}

// Meaning 词条释义
type Meaning struct {
	PartOfSpeech string
	Definition   string
}

type apiEntry struct {
	Word      string `json:"word"`
	Phonetic  string `json:"phonetic"`
	Phonetics []struct {
		Text  string `json:"text"`
		Audio string `json:"audio"`
	} `json:"phonetics"`
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Lookup 查询单词音标与释义，取前两条释义
func (c *Client) Lookup(ctx context.Context, word string) (*Entry, error) {
	endpoint := fmt.Sprintf("%s/api/v2/entries/en/%s", c.baseURL, url.PathEscape(word))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dictionary request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dictionary returned %d", resp.StatusCode)
	}

	var entries []apiEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode dictionary response: %w", err)
	}
	if len(entries) == 0 {
		return &Entry{Word: word}, nil
	}

	e := entries[0]
	result := &Entry{Word: word, Phonetic: e.Phonetic}

	for _, p := range e.Phonetics {
		if result.Phonetic == "" && p.Text != "" {
			result.Phonetic = p.Text
		}
		if result.AudioURL == "" && p.Audio != "" {
			result.AudioURL = p.Audio
		}
	}

	for i, m := range e.Meanings {
		if i >= 2 {
			break
		}
		meaning := Meaning{PartOfSpeech: m.PartOfSpeech}
		if len(m.Definitions) > 0 {
			meaning.Definition = m.Definitions[0].Definition
		}
		result.Meanings = append(result.Meanings, meaning)
	}

	return result, nil
}
