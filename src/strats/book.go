package strats

import (
	"sort"

	"github.com/jinzhu/copier"
	log "github.com/sirupsen/logrus"

	"github.com/wqtech/bullet/src/eventmodels"
)

// Position is one instrument's holding: volume-weighted cost basis and the
// number of shares held. Volume never goes negative.
type Position struct {
	AvgPrice float64
	Volume   int64
}

// PortfolioPosition is a strategy's ledger: a cash balance plus one Position
// per held instrument. It is a pure ledger: AddPosition debits cash without
// an affordability check, which stays the caller's responsibility through
// IsCashEnough. The book is owned by exactly one strategy and is only
// mutated from that strategy's fill callback.
type PortfolioPosition struct {
	Cash float64
	Book map[eventmodels.Instrument]*Position
}

func NewPortfolioPosition(totalAsset float64) *PortfolioPosition {
	return &PortfolioPosition{
		Cash: totalAsset,
		Book: make(map[eventmodels.Instrument]*Position),
	}
}

// GetPosition returns the held volume, zero when the instrument is absent.
func (p *PortfolioPosition) GetPosition(id eventmodels.Instrument) int64 {
	if pos, ok := p.Book[id]; ok {
		return pos.Volume
	}
	return 0
}

func (p *PortfolioPosition) GetEntry(id eventmodels.Instrument) (Position, bool) {
	if pos, ok := p.Book[id]; ok {
		return *pos, true
	}
	return Position{}, false
}

// Instruments returns the held instruments in sorted order.
func (p *PortfolioPosition) Instruments() []eventmodels.Instrument {
	ids := make([]eventmodels.Instrument, 0, len(p.Book))
	for id := range p.Book {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsCashEnough reports whether cash covers the trade cost plus commission.
func (p *PortfolioPosition) IsCashEnough(price float64, volume int64, commission float64) bool {
	return p.Cash > price*float64(volume)+commission
}

// AddPosition books a buy fill: merge into the volume-weighted average
// price, then debit cash by cost plus commission unconditionally.
func (p *PortfolioPosition) AddPosition(id eventmodels.Instrument, price float64, volume int64, commission float64) {
	if pos, ok := p.Book[id]; ok {
		pos.AvgPrice = (pos.AvgPrice*float64(pos.Volume) + price*float64(volume)) /
			float64(pos.Volume+volume)
		pos.Volume += volume
	} else {
		p.Book[id] = &Position{AvgPrice: price, Volume: volume}
	}

	p.Cash -= price*float64(volume) + commission
}

// DeletePosition books a sell fill. Selling more than held clamps to the
// held volume with a warning; an unheld instrument is a logged no-op. The
// entry is removed when the volume reaches zero.
func (p *PortfolioPosition) DeletePosition(id eventmodels.Instrument, price float64, volume int64, commission float64) {
	pos, ok := p.Book[id]
	if !ok {
		log.Warnf("cannot decrease position on %s: not in the book", id)
		return
	}

	availVolume := volume
	if volume > pos.Volume {
		log.Warnf("expected to decrease position on %s by %d at %f, while only %d available",
			id, volume, price, pos.Volume)
		availVolume = pos.Volume
	}

	pos.Volume -= availVolume
	p.Cash += float64(availVolume)*price - commission

	if pos.Volume == 0 {
		delete(p.Book, id)
	}
}

// AdjustPrice applies a corporate action on its ex-date. Cash dividend and
// bonus shares are quoted per 10 shares held; the rights issue is subscribed
// all-or-nothing, and only when the pre-dividend cash covers the full
// allotment. An unheld instrument is a logged no-op.
func (p *PortfolioPosition) AdjustPrice(id eventmodels.Instrument, dividend10, right10, rightIssue10, rightIssuePrice float64) {
	pos, ok := p.Book[id]
	if !ok {
		log.Warnf("instrument %s is not in the portfolio book", id)
		return
	}

	cashBefore := p.Cash
	unit := pos.Volume / 10

	p.Cash += dividend10 * float64(unit)
	pos.Volume += int64(float64(unit) * right10)

	allotment := int64(rightIssue10 * float64(unit))
	if cashBefore > float64(allotment)*rightIssuePrice {
		pos.Volume += allotment
		p.Cash -= float64(allotment) * rightIssuePrice
	} else if allotment > 0 {
		log.Warnf("skipping rights subscription for %s: %d shares at %f exceed available cash",
			id, allotment, rightIssuePrice)
	}
}

// GetTotalAsset values the book: cash plus held volume times reference price
// for every instrument with an available price, excluding suspended ones.
// With no reference prices it returns cash.
func (p *PortfolioPosition) GetTotalAsset(refPrices map[eventmodels.Instrument]float64, excludeSuspended map[eventmodels.Instrument]bool) float64 {
	totalAsset := p.Cash

	for id, pos := range p.Book {
		if excludeSuspended[id] {
			continue
		}
		price, ok := refPrices[id]
		if !ok {
			continue
		}
		totalAsset += float64(pos.Volume) * price
	}

	return totalAsset
}

// Snapshot returns a deep copy, decoupled from later mutation. The trading
// history ledger stores one per close.
func (p *PortfolioPosition) Snapshot() *PortfolioPosition {
	snapshot := &PortfolioPosition{}
	copier.CopyWithOption(snapshot, p, copier.Option{DeepCopy: true})
	return snapshot
}
