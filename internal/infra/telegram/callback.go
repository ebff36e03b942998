package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"telegram-subscription-shop/internal/domain/model"
)

// ActionKind is the closed set of inline-button actions. Callback payloads
// are decoded into a tagged Action once, at this boundary; nothing downstream
// dispatches on raw strings.
type ActionKind string

const (
	ActionOpenShop      ActionKind = "shop"
	ActionBackStart     ActionKind = "back"
	ActionOpenCatalog   ActionKind = "catalog" // carries catalog kind
	ActionSelectTier    ActionKind = "tier"    // carries catalog kind + tier id
	ActionPay           ActionKind = "pay"
	ActionApprove       ActionKind = "approve" // carries user id
	ActionReject        ActionKind = "reject"  // carries user id
	ActionChangePayment ActionKind = "chgpay"  // carries user id
	ActionSetPayment    ActionKind = "setpay"  // carries user id + channel
	ActionPage          ActionKind = "page"    // carries page number
	ActionExport        ActionKind = "export"
	ActionBackAdmin     ActionKind = "admin"
)

// Action is one decoded inline-button press.
type Action struct {
	Kind    ActionKind
	Catalog model.CatalogKind
	TierID  string
	UserID  string
	Channel model.PaymentChannel
	Page    int
}

const actionSep = "|"

// encodeAction renders an Action into callback data (max 64 bytes on the
// wire, which every payload here fits comfortably).
func encodeAction(a Action) string {
	switch a.Kind {
	case ActionOpenCatalog:
		return strings.Join([]string{string(a.Kind), string(a.Catalog)}, actionSep)
	case ActionSelectTier:
		return strings.Join([]string{string(a.Kind), string(a.Catalog), a.TierID}, actionSep)
	case ActionApprove, ActionReject, ActionChangePayment:
		return strings.Join([]string{string(a.Kind), a.UserID}, actionSep)
	case ActionSetPayment:
		return strings.Join([]string{string(a.Kind), a.UserID, string(a.Channel)}, actionSep)
	case ActionPage:
		return strings.Join([]string{string(a.Kind), strconv.Itoa(a.Page)}, actionSep)
	default:
		return string(a.Kind)
	}
}

func decodeAction(data string) (Action, error) {
	parts := strings.Split(data, actionSep)
	a := Action{Kind: ActionKind(parts[0])}
	args := parts[1:]

	need := func(n int) error {
		if len(args) != n {
			return fmt.Errorf("callback %q: want %d args, got %d", parts[0], n, len(args))
		}
		return nil
	}

	switch a.Kind {
	case ActionOpenShop, ActionBackStart, ActionPay, ActionExport, ActionBackAdmin:
		return a, need(0)
	case ActionOpenCatalog:
		if err := need(1); err != nil {
			return a, err
		}
		a.Catalog = model.CatalogKind(args[0])
		return a, nil
	case ActionSelectTier:
		if err := need(2); err != nil {
			return a, err
		}
		a.Catalog = model.CatalogKind(args[0])
		a.TierID = args[1]
		return a, nil
	case ActionApprove, ActionReject, ActionChangePayment:
		if err := need(1); err != nil {
			return a, err
		}
		a.UserID = args[0]
		return a, nil
	case ActionSetPayment:
		if err := need(2); err != nil {
			return a, err
		}
		a.UserID = args[0]
		a.Channel = model.PaymentChannel(args[1])
		return a, nil
	case ActionPage:
		if err := need(1); err != nil {
			return a, err
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return a, fmt.Errorf("callback page: %w", err)
		}
		a.Page = n
		return a, nil
	default:
		return a, fmt.Errorf("unknown callback action %q", parts[0])
	}
}
