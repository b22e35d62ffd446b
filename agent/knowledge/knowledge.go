package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
)

const noResults = "No encontré información relacionada con esa consulta."

type Config struct {
	Table string `split_words:"true" default:"knowledge_chunks"`
	TopK  int    `envconfig:"TOP_K" default:"2"`
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Retriever interface {
	Retrieve(ctx context.Context, embedding []float32, k int) ([]string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, query string, chunks []string) (string, error)
}

var _ contractx.KnowledgeBase = (*Service)(nil)

// Service answers questions about the organisation from the closest stored chunks.
type Service struct {
	embedder   Embedder
	retriever  Retriever
	summarizer Summarizer
	topK       int
}

func NewService(embedder Embedder, retriever Retriever, summarizer Summarizer, topK int) (*Service, error) {
	if embedder == nil || retriever == nil || summarizer == nil {
		return nil, errors.New("knowledge: embedder, retriever and summarizer are required")
	}
	if topK <= 0 {
		topK = 2
	}
	return &Service{
		embedder:   embedder,
		retriever:  retriever,
		summarizer: summarizer,
		topK:       topK,
	}, nil
}

func (s *Service) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", fmt.Errorf("%w: query is empty", contractx.ErrValidation)
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return "", fmt.Errorf("embed query: %w", err)
	}

	chunks, err := s.retriever.Retrieve(ctx, vec, s.topK)
	if err != nil {
		return "", fmt.Errorf("retrieve chunks: %w", err)
	}
	log.Debug().Str("query", query).Int("chunks", len(chunks)).Msg("knowledge retrieved")
	if len(chunks) == 0 {
		return noResults, nil
	}

	answer, err := s.summarizer.Summarize(ctx, query, chunks)
	if err != nil {
		return "", fmt.Errorf("summarize chunks: %w", err)
	}
	return answer, nil
}
