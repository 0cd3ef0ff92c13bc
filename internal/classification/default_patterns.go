package classification

import "github.com/abdullahfadli/caniaffordtobuythis/internal/model"

// DefaultPatterns returns the keyword sets used for Indonesian bank
// notifications. Income is checked before expense.
func DefaultPatterns() []Pattern {
	return []Pattern{
		{
			Name:     "Incoming Funds",
			Type:     model.TypeIncome,
			Keywords: []string{"masuk", "diterima", "transfer masuk", "deposit", "top up"},
			Priority: 100,
		},
		{
			Name: "Outgoing Funds",
			Type: model.TypeExpense,
			Keywords: []string{
				"keluar",
				"pembayaran",
				"berhasil dibayar",
				"transfer keluar",
				"purchase",
				"withdrawal",
				"transaction",
				"pembelian",
				"tagihan",
				"transfer berhasil",
				"penarikan",
				"qris",
				"top-up",
			},
			Priority: 50,
		},
	}
}

// NewDefaultDetector returns a detector loaded with DefaultPatterns.
func NewDefaultDetector() *PatternDetector {
	pd, err := NewPatternDetector(DefaultPatterns())
	if err != nil {
		// Default keywords are constant; failing here is a programming error.
		panic(err)
	}
	return pd
}
