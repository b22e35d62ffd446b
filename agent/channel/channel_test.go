package channel

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	kind  string
	value string
}

type fakeMessenger struct {
	out     []sent
	textErr error
}

func (f *fakeMessenger) SendText(_ context.Context, _ string, text string) error {
	if f.textErr != nil {
		return f.textErr
	}
	f.out = append(f.out, sent{kind: "text", value: text})
	return nil
}

func (f *fakeMessenger) SendMedia(_ context.Context, _ string, mediaURL string) error {
	f.out = append(f.out, sent{kind: "media", value: mediaURL})
	return nil
}

func TestSplitTextAndImages(t *testing.T) {
	t.Parallel()

	reply := "Estas son nuestras sedes:\n[Imagen: https://example.com/a.png]\n\n\n\nTe esperamos. [Imagen: http://example.com/b.jpg]"
	text, images := SplitTextAndImages(reply)

	assert.Equal(t, "Estas son nuestras sedes:\n\nTe esperamos.", text)
	assert.Equal(t, []string{"https://example.com/a.png", "http://example.com/b.jpg"}, images)
}

func TestSplitTextWithoutImages(t *testing.T) {
	t.Parallel()

	text, images := SplitTextAndImages("  Hola  ")
	assert.Equal(t, "Hola", text)
	assert.Empty(t, images)
}

func TestChunkKeepsParagraphsTogether(t *testing.T) {
	t.Parallel()

	text := "uno\n\ndos\n\ntres"
	assert.Equal(t, []string{"uno\n\ndos", "tres"}, Chunk(text, 9))
	assert.Equal(t, []string{text}, Chunk(text, 100))
	assert.Nil(t, Chunk("   ", 10))
}

func TestChunkSplitsLongParagraph(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("palabra ", 400)
	chunks := Chunk(long, DefaultMaxChunk)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, utf8.RuneCountInString(c), DefaultMaxChunk)
	}
	assert.Equal(t, strings.Fields(long), strings.Fields(strings.Join(chunks, " ")))
}

func TestChunkSplitsLongLineOnWords(t *testing.T) {
	t.Parallel()

	chunks := Chunk("titulo\nuno dos tres cuatro cinco", 10)
	assert.Equal(t, []string{"titulo", "uno dos", "tres", "cuatro", "cinco"}, chunks)
}

func TestChunkHardSplitsUnbrokenText(t *testing.T) {
	t.Parallel()

	chunks := Chunk(strings.Repeat("ñ", 25), 10)
	assert.Equal(t, []string{strings.Repeat("ñ", 10), strings.Repeat("ñ", 10), strings.Repeat("ñ", 5)}, chunks)
}

func TestDeliverSendsTextThenImages(t *testing.T) {
	t.Parallel()

	messenger := &fakeMessenger{}
	d, err := NewDeliverer(messenger, Config{ChunkPause: time.Second, MaxChunk: 10})
	require.NoError(t, err)

	var pauses []time.Duration
	d.sleep = func(_ context.Context, p time.Duration) error {
		pauses = append(pauses, p)
		return nil
	}

	err = d.Deliver(context.Background(), "+573001112233", "hola\n\nque tal\n\n[Imagen: https://example.com/x.png]")
	require.NoError(t, err)

	assert.Equal(t, []sent{
		{kind: "text", value: "hola"},
		{kind: "text", value: "que tal"},
		{kind: "media", value: "https://example.com/x.png"},
	}, messenger.out)
	assert.Equal(t, []time.Duration{time.Second}, pauses)
}

func TestDeliverStopsOnSendFailure(t *testing.T) {
	t.Parallel()

	messenger := &fakeMessenger{textErr: errors.New("twilio down")}
	d, err := NewDeliverer(messenger, Config{})
	require.NoError(t, err)

	err = d.Deliver(context.Background(), "+57", "hola [Imagen: https://example.com/x.png]")
	assert.ErrorContains(t, err, "twilio down")
	assert.Empty(t, messenger.out)
}

func TestNewDelivererRequiresMessenger(t *testing.T) {
	t.Parallel()

	_, err := NewDeliverer(nil, Config{})
	assert.Error(t, err)
}
