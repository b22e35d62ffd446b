package channel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
	metricsx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/metrics"
)

// FallbackReply is sent when the conversation pipeline fails.
const FallbackReply = "Lo siento, ha ocurrido un error."

type Config struct {
	ChunkPause time.Duration `split_words:"true" default:"1s"`
	MaxChunk   int           `split_words:"true" default:"1500"`
}

// Deliverer sends a reply as text chunks followed by its images.
type Deliverer struct {
	messenger contractx.Messenger
	pause     time.Duration
	maxChunk  int
	sleep     func(ctx context.Context, d time.Duration) error
}

func NewDeliverer(messenger contractx.Messenger, cfg Config) (*Deliverer, error) {
	if messenger == nil {
		return nil, errors.New("messenger is required")
	}
	if cfg.MaxChunk <= 0 {
		cfg.MaxChunk = DefaultMaxChunk
	}
	return &Deliverer{
		messenger: messenger,
		pause:     cfg.ChunkPause,
		maxChunk:  cfg.MaxChunk,
		sleep:     sleepContext,
	}, nil
}

func (d *Deliverer) Deliver(ctx context.Context, userID string, reply string) error {
	text, images := SplitTextAndImages(reply)
	chunks := Chunk(text, d.maxChunk)

	sent := 0
	for _, chunk := range chunks {
		if sent > 0 && d.pause > 0 {
			if err := d.sleep(ctx, d.pause); err != nil {
				return err
			}
		}
		if err := d.messenger.SendText(ctx, userID, chunk); err != nil {
			metricsx.DeliveriesTotal.WithLabelValues("text", metricsx.StatusError).Inc()
			return fmt.Errorf("send text chunk %d/%d: %w", sent+1, len(chunks), err)
		}
		metricsx.DeliveriesTotal.WithLabelValues("text", metricsx.StatusOK).Inc()
		sent++
	}

	for _, url := range images {
		if err := d.messenger.SendMedia(ctx, userID, url); err != nil {
			metricsx.DeliveriesTotal.WithLabelValues("media", metricsx.StatusError).Inc()
			return fmt.Errorf("send media %s: %w", url, err)
		}
		metricsx.DeliveriesTotal.WithLabelValues("media", metricsx.StatusOK).Inc()
	}

	log.Debug().
		Str("user_id", userID).
		Int("chunks", len(chunks)).
		Int("images", len(images)).
		Msg("reply delivered")
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
