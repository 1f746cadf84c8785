package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/PabloGalante/ruhaan-agent/internal/adapters/browser"
	"github.com/PabloGalante/ruhaan-agent/internal/adapters/llm"
	"github.com/PabloGalante/ruhaan-agent/internal/adapters/notify"
	firestorestore "github.com/PabloGalante/ruhaan-agent/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/ruhaan-agent/internal/adapters/storage/memory"
	redisstore "github.com/PabloGalante/ruhaan-agent/internal/adapters/storage/redis"
	sqlitestore "github.com/PabloGalante/ruhaan-agent/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/ruhaan-agent/internal/app/agentflow"
	"github.com/PabloGalante/ruhaan-agent/internal/app/command"
	"github.com/PabloGalante/ruhaan-agent/internal/app/conversation"
	"github.com/PabloGalante/ruhaan-agent/internal/app/intent"
	journalapp "github.com/PabloGalante/ruhaan-agent/internal/app/journal"
	"github.com/PabloGalante/ruhaan-agent/internal/app/structured"
	"github.com/PabloGalante/ruhaan-agent/internal/app/tools"
	"github.com/PabloGalante/ruhaan-agent/internal/config"
	"github.com/PabloGalante/ruhaan-agent/internal/domain"
	"github.com/PabloGalante/ruhaan-agent/internal/observability"
)

// app holds the wired services and everything that must be released on shutdown.
type app struct {
	conversation *conversation.Service
	journal      *journalapp.Service
	dispatcher   *command.Dispatcher
	inbox        *notify.Inbox
	scheduler    *tools.Scheduler

	closers []func() error
}

func (a *app) Close() error {
	a.scheduler.Stop()

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func buildApp(ctx context.Context, cfg *config.Config) (a *app, err error) {
	log := observability.Logger()
	a = &app{scheduler: tools.NewScheduler()}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	// LLM: mock, OpenAI-compatible or Vertex
	chatClient, err := newChatClient(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	log.Info("llm client ready", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model)

	// Storage: sessions, messages and tool records
	var (
		sessionStore domain.SessionStore
		messageStore domain.MessageStore
		records      domain.RecordStores
	)

	switch cfg.Storage.Backend {
	case "firestore":
		fsStore, err := firestorestore.NewStore(ctx, cfg.Storage.GCPProjectID)
		if err != nil {
			return nil, fmt.Errorf("init firestore store: %w", err)
		}
		a.closers = append(a.closers, fsStore.Close)

		// 1 store, implements every interface
		sessionStore, messageStore, records = fsStore, fsStore, fsStore.Stores()

	case "sqlite":
		sqStore, err := sqlitestore.NewStore(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("init sqlite store: %w", err)
		}
		a.closers = append(a.closers, sqStore.Close)
		sessionStore, messageStore, records = sqStore, sqStore, sqStore.Stores()

	default:
		sessionStore = memstore.NewSessionStore()
		messageStore = memstore.NewMessageStore()
		records = memstore.NewRecordStore().Stores()
	}
	log.Info("storage ready", "backend", cfg.Storage.Backend)

	if cfg.History.Backend == "redis" {
		rs, err := redisstore.NewMessageStore(redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("init redis message store: %w", err)
		}
		a.closers = append(a.closers, rs.Close)
		messageStore = rs
		log.Info("conversation log in redis", "addr", cfg.Redis.Addr)
	}

	// Side channels
	var launcher domain.BrowserLauncher = browser.LogLauncher{}
	if cfg.Browser.Launcher == "rod" {
		rl := browser.NewRodLauncher(browser.Config{Headless: cfg.Browser.Headless, Bin: cfg.Browser.Bin})
		a.closers = append(a.closers, rl.Close)
		launcher = rl
	}
	a.inbox = notify.NewInbox(50, notify.LogNotifier{})

	var phrases structured.PhraseBank
	if cfg.Voice.PhraseBank != "" {
		bank, err := structured.LoadPhraseBank(cfg.Voice.PhraseBank)
		if err != nil {
			return nil, err
		}
		phrases = bank
	}

	t := cfg.LLM.Timeouts
	model := cfg.LLM.Model
	structuredModel := cfg.LLM.StructuredModel
	if structuredModel == "" {
		structuredModel = model
	}

	translator := llm.NewTranslator(chatClient, model, t.Translate)
	planner := agentflow.NewPlannerAgent(chatClient, model, t.Planner)

	a.dispatcher = command.NewDispatcher(chatClient, model, t.Command, command.DefaultRoutes(command.Toolset{
		Browser:  tools.NewBrowserTool(launcher),
		Reminder: tools.NewReminderTool(records.Reminders, a.scheduler, a.inbox),
		Goal:     tools.NewGoalBreakdownTool(planner, records.Plans),
		Habit:    tools.NewHabitTool(records.Habits),
		Task:     tools.NewTaskTool(records.Tasks, a.scheduler, a.inbox),
	}))

	orchestrator := agentflow.NewOrchestrator(
		intent.NewClassifier(chatClient, model, t.Classify),
		agentflow.NewChitChatAgent(chatClient, translator, model, t.ChitChat),
		agentflow.NewReflectorAgent(structured.NewBuilder(chatClient, translator, phrases, structuredModel, t.Structured)),
		agentflow.NewCommandAgent(a.dispatcher),
	)

	a.conversation = conversation.NewService(orchestrator, sessionStore, messageStore, cfg.History.Window)
	a.journal = journalapp.NewService(records)
	return a, nil
}

func newChatClient(ctx context.Context, cfg config.LLMConfig) (domain.ChatClient, error) {
	var (
		client domain.ChatClient
		err    error
	)

	switch cfg.Provider {
	case "openai":
		client, err = llm.NewOpenAIClient(llm.OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case "vertex":
		client, err = llm.NewVertexClient(ctx, llm.VertexConfig{
			ProjectID: cfg.GCPProjectID,
			Location:  cfg.GCPLocation,
			Model:     cfg.Model,
		})
	default:
		client = llm.NewMockLLM()
	}
	if err != nil {
		return nil, fmt.Errorf("init %s llm client: %w", cfg.Provider, err)
	}
	return llm.NewInstrumented(client, cfg.Provider), nil
}
