package telegram

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegram-subscription-shop/internal/application"
	"telegram-subscription-shop/internal/config"
	"telegram-subscription-shop/internal/domain"
	"telegram-subscription-shop/internal/domain/model"
	"telegram-subscription-shop/internal/infra/content"
	"telegram-subscription-shop/internal/infra/metrics"
)

// welcomeStickerID is the sticker greeting sent with /start.
const welcomeStickerID = "CAACAgQAAxkBAAEOHOhn2cf3AAHyh1ctojFLvQ_oA0lHDuwAAioDAAK8pBoD3ybItIoPIg82BA"

// NewClient builds the shared Telegram API client.
func NewClient(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

// RealTelegramBotAdapter polls Telegram for updates and routes them to the
// facade. Updates are decoded at this boundary; everything below works with
// typed actions.
type RealTelegramBotAdapter struct {
	bot      *tgbotapi.BotAPI
	cfg      *config.BotConfig
	facade   *application.BotFacade
	texts    *content.Catalog
	channels []model.PaymentChannel
	log      *zerolog.Logger

	// updateWorkers is how many goroutines will concurrently process updates.
	updateWorkers int
	// cancelPolling cancels polling when called
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(bot *tgbotapi.BotAPI, cfg *config.BotConfig, facade *application.BotFacade, texts *content.Catalog, channels []model.PaymentChannel, logger *zerolog.Logger) (*RealTelegramBotAdapter, error) {
	if bot == nil {
		return nil, errors.New("bot client is nil")
	}
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	if len(channels) == 0 {
		channels = []model.PaymentChannel{model.PaymentChannelWebsite}
	}
	return &RealTelegramBotAdapter{
		bot:           bot,
		cfg:           cfg,
		facade:        facade,
		texts:         texts,
		channels:      channels,
		log:           logger,
		updateWorkers: workers,
	}, nil
}

// StartPolling begins polling Telegram for updates concurrently.
// It runs until ctx is canceled.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	// Start worker goroutines to process updates concurrently
	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for {
				select {
				case update, ok := <-updateChan:
					if !ok {
						return
					}
					if err := r.safeHandle(ctx, update); err != nil {
						r.log.Error().Err(err).Int("worker", workerID).Msg("error handling update")
					}
				case <-ctx.Done():
					return
				}
			}
		}(i + 1)
	}

	// Dispatcher goroutine: feed updates into updateChan
	go func() {
		defer close(updateChan)
		for {
			select {
			case update := <-updates:
				select {
				case updateChan <- update:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	<-ctx.Done()
	r.bot.StopReceivingUpdates()
	wg.Wait()
	return nil
}

// StopPolling stops the polling loop gracefully.
func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

// safeHandle keeps a panicking handler from taking a worker down; the update
// is dropped and the fault logged.
func (r *RealTelegramBotAdapter) safeHandle(ctx context.Context, update tgbotapi.Update) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic in update handler: %v", p)
		}
	}()
	switch {
	case update.CallbackQuery != nil:
		return r.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		return r.handleMessage(ctx, update.Message)
	}
	return nil
}

func (r *RealTelegramBotAdapter) isAdmin(chatID int64) bool {
	return chatID == r.cfg.AdminID
}

func (r *RealTelegramBotAdapter) send(c tgbotapi.Chattable) error {
	if _, err := r.bot.Send(c); err != nil {
		metrics.IncSendFailure()
		return err
	}
	return nil
}

func (r *RealTelegramBotAdapter) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	return r.send(msg)
}

func (r *RealTelegramBotAdapter) sendTextKB(chatID int64, text string, kb interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.ReplyMarkup = kb
	return r.send(msg)
}

func (r *RealTelegramBotAdapter) answer(callbackID, text string) {
	if _, err := r.bot.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		r.log.Debug().Err(err).Msg("answer callback failed")
	}
}

func (r *RealTelegramBotAdapter) sendWelcome(chatID int64) error {
	// Sticker greeting is best-effort.
	if err := r.send(tgbotapi.NewSticker(chatID, tgbotapi.FileID(welcomeStickerID))); err != nil {
		r.log.Debug().Err(err).Int64("chat_id", chatID).Msg("welcome sticker failed")
	}
	return r.sendTextKB(chatID, r.texts.T("welcome"), mainMenuKeyboard(r.isAdmin(chatID)))
}

func (r *RealTelegramBotAdapter) sendStore(chatID int64) error {
	if err := r.sendText(chatID, r.texts.T("store_welcome")); err != nil {
		return err
	}
	r.sendLogo(chatID)
	return r.sendTextKB(chatID, r.texts.T("select_prompt"), storeKeyboard())
}

func (r *RealTelegramBotAdapter) sendLogo(chatID int64) {
	if r.cfg.LogoPath == "" {
		return
	}
	if _, err := os.Stat(r.cfg.LogoPath); err != nil {
		r.log.Error().Err(err).Str("path", r.cfg.LogoPath).Msg("logo image not found")
		_ = r.sendText(chatID, r.texts.T("logo_missing"))
		return
	}
	if err := r.send(tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(r.cfg.LogoPath))); err != nil {
		r.log.Error().Err(err).Int64("chat_id", chatID).Msg("sending logo failed")
		_ = r.sendText(chatID, r.texts.T("logo_missing"))
	}
}

func (r *RealTelegramBotAdapter) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	metrics.IncUpdate("message")
	chatID := msg.Chat.ID
	r.log.Debug().Int64("chat_id", chatID).Str("text", msg.Text).Msg("message received")

	if msg.IsCommand() {
		if msg.Command() == "start" {
			return r.sendWelcome(chatID)
		}
		return r.sendText(chatID, r.texts.T("unrecognized"))
	}

	switch msg.Text {
	case btnStore:
		return r.sendStore(chatID)
	case btnBackStart:
		return r.sendWelcome(chatID)
	case btnSupport:
		return r.sendTextKB(chatID, r.texts.T("support"), backKeyboard())
	case btnRefundPolicy:
		return r.sendTextKB(chatID, r.texts.RefundPolicy(), backKeyboard())
	case btnHowToOrder:
		return r.sendTextKB(chatID, r.texts.T("how_to_order"), backKeyboard())
	case btnPayments:
		return r.sendTextKB(chatID, r.texts.T("payments_info"), backKeyboard())
	case btnAdmin, btnChangePayment:
		if !r.isAdmin(chatID) {
			return r.sendText(chatID, r.texts.T("unrecognized"))
		}
		// Both admin entry points land on the panel; change-payment controls
		// are rendered per record.
		return r.renderAdminPanel(ctx, chatID, 1, 0)
	default:
		r.log.Warn().Int64("chat_id", chatID).Str("text", msg.Text).Msg("unrecognized message")
		return r.sendText(chatID, r.texts.T("unrecognized"))
	}
}

func (r *RealTelegramBotAdapter) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) error {
	metrics.IncUpdate("callback")
	if cq.Message == nil {
		return nil
	}
	chatID := cq.Message.Chat.ID

	action, err := decodeAction(cq.Data)
	if err != nil {
		r.log.Warn().Err(err).Int64("chat_id", chatID).Str("data", cq.Data).Msg("bad callback payload")
		r.answer(cq.ID, "")
		return nil
	}
	r.log.Debug().Int64("chat_id", chatID).Str("action", string(action.Kind)).Msg("callback received")

	switch action.Kind {
	case ActionBackStart:
		r.answer(cq.ID, "Returning to main menu...")
		return r.sendWelcome(chatID)

	case ActionOpenShop:
		r.answer(cq.ID, "Opening Our Shop...")
		if err := r.sendTextKB(chatID, r.texts.T("shop_welcome"), mainMenuKeyboard(r.isAdmin(chatID))); err != nil {
			return err
		}
		return r.sendTextKB(chatID, r.texts.T("select_prompt"), shopMenuKeyboard())

	case ActionOpenCatalog:
		c, err := model.CatalogFor(action.Catalog)
		if err != nil {
			r.answer(cq.ID, "Unknown option")
			return nil
		}
		r.answer(cq.ID, "Choose an option...")
		if err := r.sendTextKB(chatID, c.Title, mainMenuKeyboard(r.isAdmin(chatID))); err != nil {
			return err
		}
		return r.sendTextKB(chatID, r.texts.T("select_prompt"), catalogKeyboard(c))

	case ActionSelectTier:
		text, err := r.facade.HandleSelect(ctx, chatID, action.Catalog, action.TierID)
		if err != nil {
			if errors.Is(err, domain.ErrUnknownTier) {
				r.answer(cq.ID, "Unknown option")
				return nil
			}
			// Always close the spinner, even on unexpected failures.
			r.answer(cq.ID, failureToast)
			return err
		}
		r.answer(cq.ID, "Selection saved")
		if err := r.sendTextKB(chatID, text, mainMenuKeyboard(r.isAdmin(chatID))); err != nil {
			return err
		}
		return r.sendTextKB(chatID, r.texts.T("select_prompt"), payKeyboard(action.Catalog))

	case ActionPay:
		text, err := r.facade.HandlePay(ctx, chatID)
		if err != nil {
			r.answer(cq.ID, failureToast)
			return err
		}
		r.answer(cq.ID, "")
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		msg.DisableWebPagePreview = true
		return r.send(msg)

	case ActionApprove:
		toast, err := r.facade.HandleApprove(ctx, chatID, action.UserID)
		if err != nil {
			r.answer(cq.ID, decisionErrorToast(err))
			return nil
		}
		r.answer(cq.ID, toast)
		return r.renderAdminPanel(ctx, chatID, 1, cq.Message.MessageID)

	case ActionReject:
		toast, err := r.facade.HandleReject(ctx, chatID, action.UserID, "")
		if err != nil {
			r.answer(cq.ID, decisionErrorToast(err))
			return nil
		}
		r.answer(cq.ID, toast)
		return r.renderAdminPanel(ctx, chatID, 1, cq.Message.MessageID)

	case ActionChangePayment:
		if !r.isAdmin(chatID) {
			r.answer(cq.ID, "Not authorized")
			return nil
		}
		r.answer(cq.ID, "Select new payment method...")
		return r.sendTextKB(chatID, r.texts.T("change_payment_prompt", action.UserID),
			changePaymentKeyboard(action.UserID, r.channels))

	case ActionSetPayment:
		toast, err := r.facade.HandleChangePayment(ctx, chatID, action.UserID, action.Channel)
		if err != nil {
			r.answer(cq.ID, decisionErrorToast(err))
			return nil
		}
		r.answer(cq.ID, toast)
		return r.renderAdminPanel(ctx, chatID, 1, 0)

	case ActionPage:
		r.answer(cq.ID, fmt.Sprintf("Viewing page %d...", action.Page))
		return r.renderAdminPanel(ctx, chatID, action.Page, cq.Message.MessageID)

	case ActionExport:
		toast, err := r.facade.HandleExport(ctx, chatID)
		if err != nil {
			r.answer(cq.ID, decisionErrorToast(err))
			return nil
		}
		r.answer(cq.ID, toast)
		return nil

	case ActionBackAdmin:
		r.answer(cq.ID, "Returning to Admin Panel...")
		return r.renderAdminPanel(ctx, chatID, 1, 0)
	}
	return nil
}

// renderAdminPanel sends or edits one page of the pending list. Non-admin
// callers get a denial through the facade and no panel.
func (r *RealTelegramBotAdapter) renderAdminPanel(ctx context.Context, chatID int64, page, editMessageID int) error {
	text, pp, err := r.facade.HandleAdminPanel(ctx, chatID, page)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil
		}
		return err
	}
	if pp == nil {
		return r.sendText(chatID, text)
	}
	kb := adminPanelKeyboard(pp)
	if editMessageID != 0 {
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, editMessageID, text, kb)
		edit.ParseMode = tgbotapi.ModeMarkdown
		if err := r.send(edit); err == nil {
			return nil
		}
		// Stale or unchanged message; fall through to a fresh one.
		r.log.Debug().Int64("chat_id", chatID).Int("message_id", editMessageID).Msg("panel edit failed, sending new")
	}
	return r.sendTextKB(chatID, text, kb)
}

// failureToast closes the callback spinner when a handler fails for a reason
// the user cannot act on.
const failureToast = "Something went wrong, please try again."

func decisionErrorToast(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return "Not authorized"
	case errors.Is(err, domain.ErrTerminalStatus):
		return "Request already processed"
	case errors.Is(err, domain.ErrNotFound):
		return "Record not found"
	case errors.Is(err, domain.ErrUnknownChannel):
		return "Unknown payment method"
	default:
		return "Operation failed, check logs"
	}
}
