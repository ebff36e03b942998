package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-subscription-shop/internal/application"
	"telegram-subscription-shop/internal/config"
	"telegram-subscription-shop/internal/domain"
	"telegram-subscription-shop/internal/domain/model"
	"telegram-subscription-shop/internal/infra/content"
)

// fakeTelegram records which Bot API methods the adapter invokes.
type fakeTelegram struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeTelegram) called(method string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == method {
			return true
		}
	}
	return false
}

func newFakeBot(t *testing.T) (*tgbotapi.BotAPI, *fakeTelegram) {
	t.Helper()
	fake := &fakeTelegram{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := path.Base(r.URL.Path)
		fake.mu.Lock()
		fake.calls = append(fake.calls, method)
		fake.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		switch method {
		case "getMe":
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"bot","username":"testbot"}}`)
		case "sendMessage", "editMessageText":
			fmt.Fprint(w, `{"ok":true,"result":{"message_id":1,"date":1,"chat":{"id":1,"type":"private"},"text":"ok"}}`)
		default:
			fmt.Fprint(w, `{"ok":true,"result":true}`)
		}
	}))
	t.Cleanup(srv.Close)
	bot, err := tgbotapi.NewBotAPIWithAPIEndpoint("token", srv.URL+"/bot%s/%s")
	if err != nil {
		t.Fatalf("fake bot client: %v", err)
	}
	return bot, fake
}

type failingPayment struct{ err error }

func (f failingPayment) InitiatePayment(ctx context.Context, userID string) (*model.SubscriptionRecord, string, error) {
	return nil, "", f.err
}

type failingSelection struct{ err error }

func (f failingSelection) SelectTier(ctx context.Context, userID string, kind model.CatalogKind, tierID string) (*model.SubscriptionRecord, error) {
	return nil, f.err
}

func newTestAdapter(t *testing.T, facade *application.BotFacade) (*RealTelegramBotAdapter, *fakeTelegram) {
	t.Helper()
	bot, fake := newFakeBot(t)
	texts, err := content.NewCatalog(content.TextsFS, "en")
	if err != nil {
		t.Fatalf("load texts: %v", err)
	}
	logger := zerolog.New(io.Discard)
	adapter, err := NewRealTelegramBotAdapter(bot, &config.BotConfig{AdminID: 999, Workers: 1}, facade, texts, nil, &logger)
	if err != nil {
		t.Fatalf("build adapter: %v", err)
	}
	return adapter, fake
}

func userCallback(kind ActionKind) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:      "cb-1",
		Data:    encodeAction(Action{Kind: kind, Catalog: model.CatalogSubscription, TierID: "plan_3m"}),
		Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: 111}},
	}
}

func TestHandleCallback_AnswersOnFailure(t *testing.T) {
	ctx := context.Background()
	texts, _ := content.NewCatalog(content.TextsFS, "en")
	boom := errors.New("ledger unavailable")

	t.Run("pay failure still answers the callback", func(t *testing.T) {
		facade := application.NewBotFacade(nil, failingPayment{err: boom}, nil, texts)
		adapter, fake := newTestAdapter(t, facade)

		err := adapter.handleCallback(ctx, userCallback(ActionPay))
		if !errors.Is(err, boom) {
			t.Fatalf("expected the failure to surface to the worker, got %v", err)
		}
		if !fake.called("answerCallbackQuery") {
			t.Error("expected the callback to be answered so the client spinner closes")
		}
	})

	t.Run("selection failure still answers the callback", func(t *testing.T) {
		facade := application.NewBotFacade(failingSelection{err: boom}, nil, nil, texts)
		adapter, fake := newTestAdapter(t, facade)

		err := adapter.handleCallback(ctx, userCallback(ActionSelectTier))
		if !errors.Is(err, boom) {
			t.Fatalf("expected the failure to surface to the worker, got %v", err)
		}
		if !fake.called("answerCallbackQuery") {
			t.Error("expected the callback to be answered so the client spinner closes")
		}
	})

	t.Run("unknown tier is answered without surfacing an error", func(t *testing.T) {
		facade := application.NewBotFacade(failingSelection{err: domain.ErrUnknownTier}, nil, nil, texts)
		adapter, fake := newTestAdapter(t, facade)

		if err := adapter.handleCallback(ctx, userCallback(ActionSelectTier)); err != nil {
			t.Fatalf("expected no error for a stale tier button, got %v", err)
		}
		if !fake.called("answerCallbackQuery") {
			t.Error("expected the callback to be answered")
		}
	})
}
