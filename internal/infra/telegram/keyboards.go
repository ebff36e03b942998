package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram-subscription-shop/internal/domain/model"
	"telegram-subscription-shop/internal/usecase"
)

// Reply-keyboard button labels. Inbound text is matched against these.
const (
	btnStore         = "🛒 Store"
	btnSupport       = "📞 Customer Support"
	btnBackStart     = "🔙 Back to Start"
	btnHowToOrder    = "📋 How To Order Step by Step"
	btnRefundPolicy  = "📜 Return & Refund Policy"
	btnPayments      = "💳 Payment & Checklist"
	btnAdmin         = "🛠️ Admin"
	btnChangePayment = "🔄 Change Payment Method"
)

func mainMenuKeyboard(isAdmin bool) tgbotapi.ReplyKeyboardMarkup {
	rows := [][]tgbotapi.KeyboardButton{
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnStore), tgbotapi.NewKeyboardButton(btnSupport)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnBackStart), tgbotapi.NewKeyboardButton(btnHowToOrder)),
		tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnRefundPolicy), tgbotapi.NewKeyboardButton(btnPayments)),
	}
	if isAdmin {
		rows = append(rows,
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnAdmin)),
			tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(btnChangePayment)),
		)
	}
	return tgbotapi.NewReplyKeyboard(rows...)
}

func dataButton(label string, a Action) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(label, encodeAction(a))
}

// storeKeyboard is shown after the Store button: enter the shop or go back.
func storeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			dataButton("🏬 Our Shop", Action{Kind: ActionOpenShop}),
			dataButton("🔙 Back", Action{Kind: ActionBackStart}),
		),
	)
}

func backKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(dataButton("🔙 Back", Action{Kind: ActionBackStart})),
	)
}

func shopMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			dataButton("📦 Subscription", Action{Kind: ActionOpenCatalog, Catalog: model.CatalogSubscription}),
			dataButton("💰 Regular Price", Action{Kind: ActionOpenCatalog, Catalog: model.CatalogRegular}),
		),
		tgbotapi.NewInlineKeyboardRow(
			dataButton("👥 Subscription Member Prices", Action{Kind: ActionOpenCatalog, Catalog: model.CatalogMember}),
			dataButton("🔙 Back", Action{Kind: ActionBackStart}),
		),
	)
}

var tierEmojis = map[model.CatalogKind]string{
	model.CatalogSubscription: "💎 ",
	model.CatalogRegular:      "💰 ",
	model.CatalogMember:       "💰 ",
}

// catalogKeyboard renders a price table as tier buttons, two per row.
func catalogKeyboard(c *model.Catalog) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, t := range c.Tiers {
		row = append(row, dataButton(tierEmojis[c.Kind]+t.Label,
			Action{Kind: ActionSelectTier, Catalog: c.Kind, TierID: t.ID}))
		if len(row) == 2 {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		dataButton("🔙 Back to Shop", Action{Kind: ActionOpenShop}),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// payKeyboard is shown after a tier selection.
func payKeyboard(kind model.CatalogKind) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(dataButton("🌐 Pay via Website", Action{Kind: ActionPay})),
		tgbotapi.NewInlineKeyboardRow(dataButton("🔙 Back", Action{Kind: ActionOpenCatalog, Catalog: kind})),
	)
}

// approvalKeyboard is the admin notification's approve/reject control pair.
func approvalKeyboard(userID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(approvalRow(userID))
}

func approvalRow(userID string) []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(
		dataButton("✅ Approve", Action{Kind: ActionApprove, UserID: userID}),
		dataButton("❌ Reject", Action{Kind: ActionReject, UserID: userID}),
	)
}

// adminPanelKeyboard renders per-record controls for one page of the pending
// list plus pagination and the export button.
func adminPanelKeyboard(pp *usecase.PendingPage) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, rec := range pp.Records {
		rows = append(rows, approvalRow(rec.UserID))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			dataButton("🔄 Change Payment", Action{Kind: ActionChangePayment, UserID: rec.UserID}),
		))
	}
	var nav []tgbotapi.InlineKeyboardButton
	if pp.Page > 1 {
		nav = append(nav, dataButton("⬅️ Previous", Action{Kind: ActionPage, Page: pp.Page - 1}))
	}
	if pp.Page < pp.TotalPages {
		nav = append(nav, dataButton("➡️ Next", Action{Kind: ActionPage, Page: pp.Page + 1}))
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		dataButton("📥 Download User Data", Action{Kind: ActionExport}),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// changePaymentKeyboard lists the channels a record can be reassigned to.
func changePaymentKeyboard(userID string, channels []model.PaymentChannel) tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, ch := range channels {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			dataButton("🌐 "+string(ch), Action{Kind: ActionSetPayment, UserID: userID, Channel: ch}),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		dataButton("🔙 Back", Action{Kind: ActionBackAdmin}),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}
