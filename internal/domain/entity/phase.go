package entity

// Phase is the single externally observable state of the trading routine.
type Phase string

const (
	PhaseAnalyze          Phase = "analyze"
	PhasePurchase         Phase = "purchase"
	PhaseWait             Phase = "wait"
	PhaseAwaitingDelivery Phase = "awaiting_delivery"
)

func (p Phase) String() string {
	return string(p)
}
