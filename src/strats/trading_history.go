package strats

// TradingHistoryEntry is one date's close snapshot: the frozen position book
// and the total asset valued at that close.
type TradingHistoryEntry struct {
	Date     string
	Position *PortfolioPosition
	Asset    float64
}

// TradingHistory is the per-date ledger of close snapshots in insertion
// order. Entries hold deep copies, never the live book.
type TradingHistory struct {
	dates   []string
	entries map[string]*TradingHistoryEntry
}

func NewTradingHistory() *TradingHistory {
	return &TradingHistory{entries: make(map[string]*TradingHistoryEntry)}
}

func (h *TradingHistory) Append(date string, position *PortfolioPosition, asset float64) {
	if _, ok := h.entries[date]; !ok {
		h.dates = append(h.dates, date)
	}
	h.entries[date] = &TradingHistoryEntry{Date: date, Position: position, Asset: asset}
}

func (h *TradingHistory) Get(date string) (*TradingHistoryEntry, bool) {
	e, ok := h.entries[date]
	return e, ok
}

func (h *TradingHistory) Len() int {
	return len(h.dates)
}

func (h *TradingHistory) Dates() []string {
	return h.dates
}
