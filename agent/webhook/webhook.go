package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	channelx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/channel"
)

const (
	whatsappPrefix         = "whatsapp:"
	maxRequestBodySize     = 1 << 20
	defaultTimeout         = 2 * time.Minute
	defaultDeliveryTimeout = time.Minute
)

type MessageHandler interface {
	HandleMessage(ctx context.Context, userID string, text string) (string, error)
}

type Replier interface {
	Deliver(ctx context.Context, userID string, reply string) error
}

// Handler receives inbound WhatsApp messages and answers them synchronously.
type Handler struct {
	assistant MessageHandler
	replier   Replier
	timeout   time.Duration
	delivery  time.Duration
}

type Option func(*Handler)

// WithDeliveryTimeout bounds sending the reply, counted after processing ends.
func WithDeliveryTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.delivery = d
		}
	}
}

func NewHandler(assistant MessageHandler, replier Replier, timeout time.Duration, opts ...Option) *Handler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	h := &Handler{assistant: assistant, replier: replier, timeout: timeout, delivery: defaultDeliveryTimeout}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/", h.HandleStatus)
	r.Post("/message", h.HandleMessage)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"msg": "working"})
}

// HandleMessage reads the Twilio form fields Body and From. A pipeline
// failure still answers the user with the fallback reply.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form body"})
		return
	}

	from := strings.TrimPrefix(strings.TrimSpace(r.PostForm.Get("From")), whatsappPrefix)
	body := strings.TrimSpace(r.PostForm.Get("Body"))
	if from == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "From is required"})
		return
	}

	// processing outlives a dropped request
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.timeout)
	defer cancel()

	logger := log.With().Str("user_id", from).Str("request_id", chiMiddleware.GetReqID(r.Context())).Logger()
	logger.Info().Int("length", len(body)).Msg("inbound message")

	reply, err := h.assistant.HandleMessage(ctx, from, body)
	if err != nil {
		logger.Error().Err(err).Msg("assistant failed; sending fallback reply")
		reply = channelx.FallbackReply
	}

	// the fallback must still go out when processing hit its deadline
	dctx, dcancel := context.WithTimeout(context.WithoutCancel(ctx), h.delivery)
	defer dcancel()
	if err := h.replier.Deliver(dctx, from, reply); err != nil {
		logger.Error().Err(err).Msg("deliver reply failed")
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}
