package types

import "time"

// SettlementOutcome is the terminal record of a completed settlement.
type SettlementOutcome struct {
	Success     bool      `json:"success"`
	TxHash      string    `json:"txHash"`
	FromAddress string    `json:"fromAddress"`
	ToAddress   string    `json:"toAddress"`
	Amount      string    `json:"amount"`
	Memo        string    `json:"memo"`
	Timestamp   time.Time `json:"timestamp"`
}
