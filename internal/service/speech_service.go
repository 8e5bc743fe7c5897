package service

import (
	"context"

	"github.com/echomind/echomind_server/internal/pkg/deepgram"
)

// Transcriber 语音识别适配层，便于测试替换
type Transcriber interface {
	Configured() bool
	Transcribe(ctx context.Context, audio []byte, mimeType string) (*deepgram.Transcript, error)
}

// SpeechService 包装语音识别供应商
type SpeechService struct {
	client Transcriber
}

func NewSpeechService(client Transcriber) *SpeechService {
	return &SpeechService{client: client}
}

// Available 是否配置了识别服务
func (s *SpeechService) Available() bool {
	return s.client.Configured()
}

// Transcribe 识别音频，返回文本与逐词置信度
func (s *SpeechService) Transcribe(ctx context.Context, audio []byte, mimeType string) (*deepgram.Transcript, error) {
	return s.client.Transcribe(ctx, audio, mimeType)
}
