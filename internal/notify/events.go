package notify

// Event types used to filter trade notifications. The configured event list
// selects which of these reach the senders.
const (
	EventTradeSubmitted    = "trade_submitted"
	EventTradeConfirmed    = "trade_confirmed"
	EventTradeFailed       = "trade_failed"
	EventApprovalSubmitted = "approval_submitted"
	EventFallbackExecuted  = "fallback_executed"
)
