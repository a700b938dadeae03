package enum

import "strconv"

// Side of an order: undefined, buy, sell
type Side uint8

const (
	SideUndefined Side = iota
	SideBuy
	SideSell
	_side_end
)

func (s Side) IsAvailable() bool {
	return s < _side_end
}

func (s Side) String() string {
	switch s {
	case SideUndefined:
		return "UNDEFINED"
	case SideBuy:
		return "BUY"
	case SideSell:
		return "SELL"
	default:
		return "Side(" + strconv.Itoa(int(s)) + ")"
	}
}

// Scope of an order: composite, regional, aggregate, order
type Scope uint8

const (
	ScopeComposite Scope = iota
	ScopeRegional
	ScopeAggregate
	ScopeOrder
	_scope_end
)

func (s Scope) IsAvailable() bool {
	return s < _scope_end
}

func (s Scope) String() string {
	switch s {
	case ScopeComposite:
		return "COMPOSITE"
	case ScopeRegional:
		return "REGIONAL"
	case ScopeAggregate:
		return "AGGREGATE"
	case ScopeOrder:
		return "ORDER"
	default:
		return "Scope(" + strconv.Itoa(int(s)) + ")"
	}
}

// OrderAction is the full order book action that produced an order event.
type OrderAction uint8

const (
	OrderActionUndefined OrderAction = iota
	OrderActionNew
	OrderActionReplace
	OrderActionModify
	OrderActionDelete
	OrderActionPartial
	OrderActionExecute
	OrderActionTrade
	OrderActionBust
	_order_action_end
)

var orderActionNames = [_order_action_end]string{
	OrderActionUndefined: "UNDEFINED",
	OrderActionNew:       "NEW",
	OrderActionReplace:   "REPLACE",
	OrderActionModify:    "MODIFY",
	OrderActionDelete:    "DELETE",
	OrderActionPartial:   "PARTIAL",
	OrderActionExecute:   "EXECUTE",
	OrderActionTrade:     "TRADE",
	OrderActionBust:      "BUST",
}

func (a OrderAction) IsAvailable() bool {
	return a < _order_action_end
}

func (a OrderAction) String() string {
	if !a.IsAvailable() {
		return "OrderAction(" + strconv.Itoa(int(a)) + ")"
	}
	return orderActionNames[a]
}

// IcebergType undefined, native, synthetic
type IcebergType uint8

const (
	IcebergTypeUndefined IcebergType = iota
	IcebergTypeNative
	IcebergTypeSynthetic
	_iceberg_type_end
)

func (t IcebergType) IsAvailable() bool {
	return t < _iceberg_type_end
}

// OtcMarketsPriceType unpriced, actual, wanted
type OtcMarketsPriceType uint8

const (
	OtcMarketsPriceTypeUnpriced OtcMarketsPriceType = iota
	OtcMarketsPriceTypeActual
	OtcMarketsPriceTypeWanted
	_otc_markets_price_type_end
)

func (t OtcMarketsPriceType) IsAvailable() bool {
	return t < _otc_markets_price_type_end
}

func (t IcebergType) String() string {
	switch t {
	case IcebergTypeUndefined:
		return "UNDEFINED"
	case IcebergTypeNative:
		return "NATIVE"
	case IcebergTypeSynthetic:
		return "SYNTHETIC"
	default:
		return "IcebergType(" + strconv.Itoa(int(t)) + ")"
	}
}

func (t OtcMarketsPriceType) String() string {
	switch t {
	case OtcMarketsPriceTypeUnpriced:
		return "UNPRICED"
	case OtcMarketsPriceTypeActual:
		return "ACTUAL"
	case OtcMarketsPriceTypeWanted:
		return "WANTED"
	default:
		return "OtcMarketsPriceType(" + strconv.Itoa(int(t)) + ")"
	}
}
