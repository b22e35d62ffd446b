package knowledge

import (
	"context"
	"errors"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
)

type fakeEmbedder struct {
	err  error
	seen string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.seen = text
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2}, nil
}

type fakeRetriever struct {
	chunks []string
	gotK   int
}

func (f *fakeRetriever) Retrieve(_ context.Context, _ []float32, k int) ([]string, error) {
	f.gotK = k
	return f.chunks, nil
}

type fakeSummarizer struct {
	gotQuery  string
	gotChunks []string
}

func (f *fakeSummarizer) Summarize(_ context.Context, query string, chunks []string) (string, error) {
	f.gotQuery = query
	f.gotChunks = chunks
	return "Spark trabaja con inteligencia artificial.", nil
}

type fakeChatModel struct {
	reply string
	input []*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.input = input
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func TestSearchRetrievesAndSummarizes(t *testing.T) {
	t.Parallel()

	emb := &fakeEmbedder{}
	ret := &fakeRetriever{chunks: []string{"chunk uno", "chunk dos"}}
	sum := &fakeSummarizer{}
	svc, err := NewService(emb, ret, sum, 0)
	require.NoError(t, err)

	got, err := svc.Search(context.Background(), "  ¿qué hace Spark?  ")
	require.NoError(t, err)
	assert.Equal(t, "Spark trabaja con inteligencia artificial.", got)
	assert.Equal(t, "¿qué hace Spark?", emb.seen)
	assert.Equal(t, 2, ret.gotK)
	assert.Equal(t, []string{"chunk uno", "chunk dos"}, sum.gotChunks)
}

func TestSearchWithoutChunks(t *testing.T) {
	t.Parallel()

	sum := &fakeSummarizer{}
	svc, err := NewService(&fakeEmbedder{}, &fakeRetriever{}, sum, 3)
	require.NoError(t, err)

	got, err := svc.Search(context.Background(), "horarios")
	require.NoError(t, err)
	assert.Equal(t, noResults, got)
	assert.Empty(t, sum.gotQuery)
}

func TestSearchErrors(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&fakeEmbedder{err: errors.New("boom")}, &fakeRetriever{}, &fakeSummarizer{}, 2)
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, contractx.ErrValidation)

	_, err = svc.Search(context.Background(), "precio")
	assert.ErrorContains(t, err, "embed query")
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewService(nil, &fakeRetriever{}, &fakeSummarizer{}, 2)
	assert.Error(t, err)
}

func TestGraphSummarizerRendersPrompt(t *testing.T) {
	t.Parallel()

	chat := &fakeChatModel{reply: "  respuesta  "}
	sum, err := NewGraphSummarizer(context.Background(), chat, "Contexto:\n{context}\nPregunta: {query}")
	require.NoError(t, err)

	got, err := sum.Summarize(context.Background(), "¿dónde están?", []string{"Bogotá", "Medellín"})
	require.NoError(t, err)
	assert.Equal(t, "respuesta", got)

	require.Len(t, chat.input, 1)
	assert.Equal(t, schema.User, chat.input[0].Role)
	assert.Equal(t, "Contexto:\nBogotá\n\nMedellín\nPregunta: ¿dónde están?", chat.input[0].Content)
}

func TestGraphSummarizerEmptyAnswer(t *testing.T) {
	t.Parallel()

	sum, err := NewGraphSummarizer(context.Background(), &fakeChatModel{reply: " "}, "{context} {query}")
	require.NoError(t, err)

	_, err = sum.Summarize(context.Background(), "q", []string{"c"})
	assert.ErrorIs(t, err, contractx.ErrEmptyResponse)
}

func TestNewPgVectorRetrieverRejectsBadTable(t *testing.T) {
	t.Parallel()

	_, err := NewPgVectorRetriever(nil, "chunks")
	assert.Error(t, err)
}
