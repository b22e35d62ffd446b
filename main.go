package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	assistantx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/agents/assistant"
	orchestratorx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/agents/orchestrator"
	channelx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/channel"
	contractx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/contract"
	knowledgex "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/knowledge"
	llmx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/llm"
	promptx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/prompt"
	schedulingx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/scheduling"
	sheetx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/sheet"
	statex "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/state"
	toolx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/tool"
	webhookx "github.com/tanpawarit/Chative-Appointment-Scheduler/agent/webhook"
	configx "github.com/tanpawarit/Chative-Appointment-Scheduler/pkg/config"
	_ "github.com/tanpawarit/Chative-Appointment-Scheduler/pkg/logger/autoload"
	openrouterx "github.com/tanpawarit/Chative-Appointment-Scheduler/pkg/openrouter"
	postgresx "github.com/tanpawarit/Chative-Appointment-Scheduler/pkg/postgres"
	redisx "github.com/tanpawarit/Chative-Appointment-Scheduler/pkg/redis"
	twiliox "github.com/tanpawarit/Chative-Appointment-Scheduler/pkg/twilio"
)

const (
	backendMemory   = "memory"
	backendPostgres = "postgres"
	backendSheets   = "sheets"
	backendUpstash  = "upstash"
)

type AppConfig struct {
	Port            string        `split_words:"true" default:"8000"`
	Timezone        string        `split_words:"true" default:"America/Bogota"`
	TableBackend    string        `split_words:"true" default:"memory"`
	HistoryBackend  string        `split_words:"true" default:"memory"`
	TableName       string        `split_words:"true" default:"appointments"`
	RequestTimeout  time.Duration `split_words:"true" default:"2m"`
	DeliveryTimeout time.Duration `split_words:"true" default:"1m"`
	LockName        string        `split_words:"true" default:"scheduler:table-lock"`
	LockExpiry      time.Duration `split_words:"true" default:"30s"`
	ShutdownTimeout time.Duration `split_words:"true" default:"15s"`
}

func (c AppConfig) Validate() error {
	switch c.TableBackend {
	case backendMemory, backendPostgres, backendSheets:
	default:
		return fmt.Errorf("%w: unknown table backend %q", contractx.ErrValidation, c.TableBackend)
	}
	switch c.HistoryBackend {
	case backendMemory, backendUpstash:
	default:
		return fmt.Errorf("%w: unknown history backend %q", contractx.ErrValidation, c.HistoryBackend)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("%w: timezone %q: %v", contractx.ErrValidation, c.Timezone, err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatal().Err(err).Msg("assistant stopped")
	}
}

func run(ctx context.Context) error {
	appCfg := configx.MustNew[AppConfig]("APP")
	loc, err := time.LoadLocation(appCfg.Timezone)
	if err != nil {
		return err
	}
	now := func() time.Time { return time.Now().In(loc) }

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	convCfg := configx.MustNew[orchestratorx.Config]("CONVERSATION")
	prompts := promptx.LoadPromptSet()

	cols := configx.MustNew[sheetx.Columns]("SHEET")
	table, err := buildTable(ctx, appCfg, *cols)
	if err != nil {
		return fmt.Errorf("build table store: %w", err)
	}
	locker, err := buildLocker(ctx, appCfg)
	if err != nil {
		return fmt.Errorf("build store lock: %w", err)
	}
	scheduler := schedulingx.NewService(
		sheetx.NewAdapter(table, *cols),
		schedulingx.WithClock(now),
		schedulingx.WithLocker(locker),
	)

	kb, err := buildKnowledge(ctx, *llmCfg, prompts.Knowledge)
	if err != nil {
		return fmt.Errorf("build knowledge base: %w", err)
	}

	history, err := buildHistory(appCfg)
	if err != nil {
		return fmt.Errorf("build history store: %w", err)
	}

	assistantCfg := llmCfg.OpenRouterFor(llmx.RoleAssistant)
	chatModel, err := assistantCfg.New(ctx)
	if err != nil {
		return err
	}
	decider, err := assistantx.NewService(ctx, chatModel, prompts.Assistant, kb != nil)
	if err != nil {
		return err
	}

	gateway := toolx.NewGateway(scheduler, kb, toolx.WithTimeout(convCfg.ToolTimeout))

	orchestrator, err := orchestratorx.New(history, decider, gateway, *convCfg, orchestratorx.WithClock(now))
	if err != nil {
		return err
	}

	twilioCfg := configx.MustNew[twiliox.Config]("TWILIO")
	deliveryCfg := configx.MustNew[channelx.Config]("DELIVERY")
	deliverer, err := channelx.NewDeliverer(channelx.NewTwilioMessenger(twiliox.MustNew(*twilioCfg)), *deliveryCfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + strings.TrimPrefix(appCfg.Port, ":"),
		Handler:           webhookx.NewRouter(webhookx.NewHandler(
			orchestrator, deliverer, appCfg.RequestTimeout,
			webhookx.WithDeliveryTimeout(appCfg.DeliveryTimeout),
		)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Str("table_backend", appCfg.TableBackend).
			Str("history_backend", appCfg.HistoryBackend).
			Bool("knowledge", kb != nil).
			Msg("assistant listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), appCfg.ShutdownTimeout)
	defer cancel()
	log.Info().Msg("shutting down")
	return server.Shutdown(shutdownCtx)
}

func buildTable(ctx context.Context, appCfg *AppConfig, cols sheetx.Columns) (sheetx.TableStore, error) {
	switch appCfg.TableBackend {
	case backendPostgres:
		pgCfg := configx.MustNew[postgresx.Config]("POSTGRES")
		db, err := postgresx.NewBun(ctx, *pgCfg)
		if err != nil {
			return nil, err
		}
		table, err := sheetx.NewPostgresTable(db, appCfg.TableName)
		if err != nil {
			return nil, err
		}
		if err := table.EnsureSchema(ctx, cols.Headers()); err != nil {
			return nil, err
		}
		return table, nil
	case backendSheets:
		gsCfg := configx.MustNew[sheetx.GoogleSheetsConfig]("GOOGLE_SHEETS")
		return sheetx.NewGoogleSheet(ctx, *gsCfg)
	default:
		log.Warn().Msg("using in-memory appointment table; data is lost on restart")
		return sheetx.NewMemoryTable(cols.Headers()), nil
	}
}

func buildLocker(ctx context.Context, appCfg *AppConfig) (sheetx.Locker, error) {
	redisCfg := configx.MustNew[redisx.Config]("REDIS")
	if !redisCfg.Enabled() {
		return sheetx.NewLocalLocker(), nil
	}
	client, err := redisx.NewClient(ctx, *redisCfg)
	if err != nil {
		return nil, err
	}
	return sheetx.NewRedsyncLocker(client, appCfg.LockName, appCfg.LockExpiry), nil
}

func buildHistory(appCfg *AppConfig) (contractx.HistoryStore, error) {
	if appCfg.HistoryBackend != backendUpstash {
		return statex.NewMemoryStore(), nil
	}
	upstashCfg := configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS")
	return statex.NewUpstashRedisStore(*upstashCfg)
}

// buildKnowledge returns a nil interface when no knowledge database is configured.
func buildKnowledge(ctx context.Context, llmCfg llmx.Config, promptText string) (contractx.KnowledgeBase, error) {
	dbCfg := configx.MustNew[postgresx.Config]("KNOWLEDGE")
	if !dbCfg.Enabled() {
		return nil, nil
	}
	kbCfg := configx.MustNew[knowledgex.Config]("KNOWLEDGE")

	pool, err := postgresx.NewPool(ctx, *dbCfg)
	if err != nil {
		return nil, err
	}
	retriever, err := knowledgex.NewPgVectorRetriever(pool, kbCfg.Table)
	if err != nil {
		return nil, err
	}

	routerCfg := llmCfg.OpenRouterFor(llmx.RoleKnowledge)
	client, err := openrouterx.NewClient(routerCfg)
	if err != nil {
		return nil, err
	}
	embedder, err := knowledgex.NewOpenAIEmbedder(client, llmCfg.EmbeddingModel)
	if err != nil {
		return nil, err
	}

	chatModel, err := routerCfg.New(ctx)
	if err != nil {
		return nil, err
	}
	summarizer, err := knowledgex.NewGraphSummarizer(ctx, chatModel, promptText)
	if err != nil {
		return nil, err
	}

	svc, err := knowledgex.NewService(embedder, retriever, summarizer, kbCfg.TopK)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
