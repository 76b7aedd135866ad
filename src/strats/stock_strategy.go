package strats

import (
	"fmt"
	"math"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/wqtech/bullet/src/datasource"
	"github.com/wqtech/bullet/src/eventmodels"
	"github.com/wqtech/bullet/src/execution"
	"github.com/wqtech/bullet/src/utils"
)

// DefaultCalendarStart backfills the trading calendar far enough that the
// first replayed date always has a previous session.
const DefaultCalendarStart = "20050101"

// WeightModel produces the target portfolio weights for a rebalancing date.
// A nil map means "no view today": the strategy skips rebalancing.
type WeightModel interface {
	TargetWeights(asOfDate string) (map[eventmodels.Instrument]float64, error)
}

// AdjustOptions tune the rebalancing order generation.
type AdjustOptions struct {
	// PositionRate is the fraction of total asset deployed, leaving a
	// buffer for commission and slippage.
	PositionRate float64

	// UseWeightCapital treats weight values as monetary allocations
	// instead of fractions of total asset.
	UseWeightCapital bool

	// Reference price fields per bucket; all default to the close.
	SellRefField   eventmodels.Field
	BuyRefField    eventmodels.Field
	UpdateRefField eventmodels.Field

	// NormalizeWeights rescales the filtered weights to sum to one.
	NormalizeWeights bool

	// EnableSellAllBeforeBuy liquidates every sellable holding and then
	// buys the eligible target set from scratch. Unlike the incremental
	// mode it does not exclude already-held instruments from the buy set;
	// the two policies are deliberately distinct.
	EnableSellAllBeforeBuy bool

	// LotSize is the minimum tradable unit volumes are rounded down to.
	LotSize int64
}

func DefaultAdjustOptions() AdjustOptions {
	return AdjustOptions{
		PositionRate:     0.98,
		SellRefField:     eventmodels.FieldClose,
		BuyRefField:      eventmodels.FieldClose,
		UpdateRefField:   eventmodels.FieldClose,
		NormalizeWeights: true,
		LotSize:          100,
	}
}

// StockStrategyConfig wires a StockStrategy together.
type StockStrategyConfig struct {
	TotalAsset float64
	Source     datasource.DataSource
	Engine     execution.ExecutionEngine
	Model      WeightModel

	// Universe is the instrument set the strategy subscribes to and
	// fetches reference prices for.
	Universe []eventmodels.Instrument

	// CalendarStart/EndDate bound the calendar and corporate-action
	// preload. CalendarStart defaults to DefaultCalendarStart.
	CalendarStart string
	EndDate       string

	// Freq is the rebalancing cadence in trading days (default 1).
	Freq int

	Options AdjustOptions
}

// StockStrategy is the weight-rebalancing cash-equity strategy: its model's
// target weights, the current book, and the day's price limits and
// suspensions are turned into a concrete sell/buy/update order list. It runs
// date by date behind a DailyBacktestPublisher: corporate actions at open,
// rebalancing orders through the engine, a deep-copied book snapshot and
// total asset into the trading history at close.
type StockStrategy struct {
	BaseStrategy

	position *PortfolioPosition
	history  *TradingHistory
	source   datasource.DataSource
	engine   execution.ExecutionEngine
	model    WeightModel
	calendar *utils.TradingCalendar
	universe []eventmodels.Instrument
	opts     AdjustOptions

	freq  int
	round int

	orders map[int64]*eventmodels.Order

	dividends   map[string][]datasource.Dividend
	rightIssues map[string][]datasource.RightIssue
	delistings  map[eventmodels.Instrument]string
	suspensions map[string]map[eventmodels.Instrument]bool
}

func NewStockStrategy(cfg StockStrategyConfig) (*StockStrategy, error) {
	if cfg.Source == nil {
		return nil, fmt.Errorf("stock strategy requires a data source")
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("stock strategy requires an execution engine")
	}

	calendarStart := cfg.CalendarStart
	if calendarStart == "" {
		calendarStart = DefaultCalendarStart
	}
	freq := cfg.Freq
	if freq <= 0 {
		freq = 1
	}
	opts := cfg.Options
	if opts.LotSize <= 0 {
		opts.LotSize = DefaultAdjustOptions().LotSize
	}
	if opts.SellRefField == "" {
		opts.SellRefField = eventmodels.FieldClose
	}
	if opts.BuyRefField == "" {
		opts.BuyRefField = eventmodels.FieldClose
	}
	if opts.UpdateRefField == "" {
		opts.UpdateRefField = eventmodels.FieldClose
	}

	dates, err := cfg.Source.GetBusinessDates(calendarStart, cfg.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load trading calendar: %w", err)
	}

	dividends, err := cfg.Source.GetDividendInformation(calendarStart, cfg.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load dividend information: %w", err)
	}

	rightIssues, err := cfg.Source.GetRightIssueInformation(calendarStart, cfg.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load right issue information: %w", err)
	}

	delistings, err := cfg.Source.GetDelistedStocks(calendarStart, cfg.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load delisted stocks: %w", err)
	}

	suspensionDates, err := cfg.Source.GetSuspensionDates(calendarStart, cfg.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to load suspension dates: %w", err)
	}
	suspensions := make(map[string]map[eventmodels.Instrument]bool, len(suspensionDates))
	for date, ids := range suspensionDates {
		set := make(map[eventmodels.Instrument]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		suspensions[date] = set
	}

	return &StockStrategy{
		BaseStrategy: NewBaseStrategy(),
		position:     NewPortfolioPosition(cfg.TotalAsset),
		history:      NewTradingHistory(),
		source:       cfg.Source,
		engine:       cfg.Engine,
		model:        cfg.Model,
		calendar:     utils.NewTradingCalendar(dates),
		universe:     cfg.Universe,
		opts:         opts,
		freq:         freq,
		orders:       make(map[int64]*eventmodels.Order),
		dividends:    dividends,
		rightIssues:  rightIssues,
		delistings:   delistings,
		suspensions:  suspensions,
	}, nil
}

// Position exposes the live book for inspection; mutation goes through the
// fill callback only.
func (s *StockStrategy) Position() *PortfolioPosition {
	return s.position
}

func (s *StockStrategy) History() *TradingHistory {
	return s.history
}

func (s *StockStrategy) Calendar() *utils.TradingCalendar {
	return s.calendar
}

func (s *StockStrategy) GetSubscribedTopics() []eventmodels.Instrument {
	return s.universe
}

// Datafeed drives one trading date end to end: corporate actions at open, a
// rebalancing round when due, and the close snapshot.
func (s *StockStrategy) Datafeed(asOfDate string) error {
	s.OnMarketOpen(asOfDate)

	if s.round%s.freq == 0 && s.model != nil {
		weights, err := s.model.TargetWeights(asOfDate)
		if err != nil {
			return fmt.Errorf("weight model failed on %s: %w", asOfDate, err)
		}

		if weights != nil {
			refPrices, err := s.dailyBatch(asOfDate, s.refUniverse(weights))
			if err != nil {
				return err
			}

			orders, err := s.AdjustPosition(asOfDate, weights, refPrices)
			if err != nil {
				return err
			}

			for _, order := range orders {
				orderID, err := s.engine.PlaceOrder(order, s.OnOrderFilled)
				if err != nil {
					return fmt.Errorf("failed to place order %s: %w", order, err)
				}
				s.orders[orderID] = order
			}
		}
	}

	if err := s.closeMarket(asOfDate); err != nil {
		return err
	}

	s.round++
	return nil
}

// OnMarketOpen applies the date's corporate actions to every held
// instrument before any trading happens.
func (s *StockStrategy) OnMarketOpen(asOfDate string) {
	dividends := s.dividends[asOfDate]
	rightIssues := s.rightIssues[asOfDate]
	if len(dividends) == 0 && len(rightIssues) == 0 {
		return
	}

	for _, id := range s.position.Instruments() {
		dividend10, right10 := dividendFor(dividends, id)
		rightIssue10, rightIssuePrice := rightIssueFor(rightIssues, id)
		if dividend10 == 0 && right10 == 0 && rightIssue10 == 0 {
			continue
		}
		s.position.AdjustPrice(id, dividend10, right10, rightIssue10, rightIssuePrice)
	}
}

func (s *StockStrategy) OnMarketClose(asOfDate string, closeInfo *eventmodels.DataBatch) float64 {
	totalAsset := s.Mtm(closeInfo)

	s.history.Append(asOfDate, s.position.Snapshot(), totalAsset)
	s.RecordMtm(asOfDate, totalAsset)

	return totalAsset
}

func (s *StockStrategy) Mtm(closeInfo *eventmodels.DataBatch) float64 {
	if closeInfo == nil {
		return s.position.GetTotalAsset(nil, nil)
	}
	return s.position.GetTotalAsset(closeInfo.Prices(eventmodels.FieldClose), nil)
}

// OnOrderFilled books a fill into the position ledger. This is the only
// place the book is mutated.
func (s *StockStrategy) OnOrderFilled(status eventmodels.OrderStatus) {
	switch status.Direction {
	case eventmodels.OrderSideBuy.Direction():
		s.position.AddPosition(status.Instrument, status.ExecutedPrice, status.Volume, status.Commission)
	case eventmodels.OrderSideSell.Direction():
		s.position.DeletePosition(status.Instrument, status.ExecutedPrice, status.Volume, status.Commission)
	default:
		log.Warnf("unknown fill direction %d for %s", status.Direction, status.Instrument)
	}
}

// AdjustPosition converts target weights plus the current book and the
// date's exclusion sets into a concrete order list, sells first.
func (s *StockStrategy) AdjustPosition(asOfDate string, weights map[eventmodels.Instrument]float64, refPrices *eventmodels.DataBatch) ([]*eventmodels.Order, error) {
	targets := cleanWeights(weights)
	if len(targets) == 0 {
		log.Warnf("no usable target weights on %s", asOfDate)
	} else if s.opts.NormalizeWeights {
		normalizeWeights(targets)
	}

	prevDate, err := s.calendar.PrevTradingDate(asOfDate, 1)
	if err != nil {
		return nil, fmt.Errorf("cannot rebalance on %s: %w", asOfDate, err)
	}
	nextDate, err := s.calendar.NextTradingDate(asOfDate, s.freq)
	if err != nil {
		return nil, fmt.Errorf("cannot rebalance on %s: %w", asOfDate, err)
	}

	prevClose, err := s.dailyBatch(prevDate, s.position.Instruments())
	if err != nil {
		return nil, err
	}

	suspended := s.suspensions[asOfDate]

	// capital as of the previous close, keeping a buffer for commission
	// and slippage; suspended names are frozen out of the valuation
	availableAsset := s.opts.PositionRate * s.position.GetTotalAsset(
		prevClose.Prices(eventmodels.FieldClose), suspended)

	held := make(map[eventmodels.Instrument]bool, len(s.position.Book))
	for id := range s.position.Book {
		held[id] = true
	}

	delistSoon := make(map[eventmodels.Instrument]bool)
	for id, date := range s.delistings {
		if date <= nextDate {
			delistSoon[id] = true
		}
	}

	cannotBuy := make(map[eventmodels.Instrument]bool)
	cannotSell := make(map[eventmodels.Instrument]bool)
	for id, record := range refPrices.Records {
		if record.AtUpLimit() {
			cannotBuy[id] = true
		}
		if record.AtDownLimit() {
			cannotSell[id] = true
		}
	}

	targeted := make(map[eventmodels.Instrument]bool, len(targets))
	for id := range targets {
		targeted[id] = true
	}

	var toSell, toBuy, toUpdate []eventmodels.Instrument
	if s.opts.EnableSellAllBeforeBuy {
		toSell = pick(held, func(id eventmodels.Instrument) bool {
			return !suspended[id] && !cannotSell[id]
		})
		toBuy = pick(targeted, func(id eventmodels.Instrument) bool {
			return !suspended[id] && !delistSoon[id] && !cannotBuy[id]
		})
	} else {
		toSell = pick(held, func(id eventmodels.Instrument) bool {
			forced := delistSoon[id]
			return forced || (!targeted[id] && !suspended[id] && !cannotSell[id])
		})
		toBuy = pick(targeted, func(id eventmodels.Instrument) bool {
			return !held[id] && !suspended[id] && !delistSoon[id] && !cannotBuy[id]
		})
		toUpdate = pick(targeted, func(id eventmodels.Instrument) bool {
			return held[id] && !suspended[id] && !delistSoon[id] &&
				!cannotSell[id] && !cannotBuy[id]
		})
	}

	var orders []*eventmodels.Order

	for _, id := range toSell {
		price, ok := s.refPrice(refPrices, id, s.opts.SellRefField)
		if !ok {
			continue
		}
		order, err := eventmodels.NewLimitOrder(id, eventmodels.OrderSideSell, s.position.GetPosition(id), price)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	for _, id := range toBuy {
		price, ok := s.refPrice(refPrices, id, s.opts.BuyRefField)
		if !ok {
			continue
		}
		volume := utils.RoundVolume(s.monetaryVolume(targets[id], availableAsset)/price, s.opts.LotSize)
		if volume == 0 {
			log.Debugf("target weight on %s rounds to zero volume, skipping", id)
			continue
		}
		order, err := eventmodels.NewLimitOrder(id, eventmodels.OrderSideBuy, volume, price)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	for _, id := range toUpdate {
		price, ok := s.refPrice(refPrices, id, s.opts.UpdateRefField)
		if !ok {
			continue
		}
		targetVolume := utils.RoundVolume(s.monetaryVolume(targets[id], availableAsset)/price, s.opts.LotSize)

		diff := targetVolume - s.position.GetPosition(id)
		if diff == 0 {
			continue
		}

		side := eventmodels.OrderSideBuy
		if diff < 0 {
			side = eventmodels.OrderSideSell
			diff = -diff
		}
		order, err := eventmodels.NewLimitOrder(id, side, diff, price)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	// sells first, so cash is freed before it is spent
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].Side < orders[j].Side
	})

	return orders, nil
}

func (s *StockStrategy) monetaryVolume(weight, availableAsset float64) float64 {
	if s.opts.UseWeightCapital {
		return weight
	}
	return availableAsset * weight
}

func (s *StockStrategy) refPrice(batch *eventmodels.DataBatch, id eventmodels.Instrument, field eventmodels.Field) (float64, bool) {
	record, ok := batch.Get(id)
	if !ok {
		log.Warnf("no reference price for %s on %s", id, batch.TradeDate)
		return 0, false
	}

	price := record.Get(field)
	if price <= 0 {
		log.Warnf("non-positive %s reference price for %s on %s", field, id, batch.TradeDate)
		return 0, false
	}
	return price, true
}

func (s *StockStrategy) closeMarket(asOfDate string) error {
	closeInfo, err := s.dailyBatch(asOfDate, s.position.Instruments())
	if err != nil {
		return err
	}

	s.OnMarketClose(asOfDate, closeInfo)
	return nil
}

func (s *StockStrategy) dailyBatch(asOfDate string, topics []eventmodels.Instrument) (*eventmodels.DataBatch, error) {
	rows, err := s.source.GetData(topics, eventmodels.AllFields(), asOfDate, asOfDate)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily data for %s: %w", asOfDate, err)
	}

	batch := eventmodels.NewDataBatch(asOfDate, asOfDate)
	for _, row := range rows {
		batch.Add(row)
	}
	return batch, nil
}

// refUniverse is the configured universe plus everything held and targeted,
// so the rebalancer always sees prices for what it may trade.
func (s *StockStrategy) refUniverse(weights map[eventmodels.Instrument]float64) []eventmodels.Instrument {
	set := make(map[eventmodels.Instrument]struct{})
	for _, id := range s.universe {
		set[id] = struct{}{}
	}
	for id := range s.position.Book {
		set[id] = struct{}{}
	}
	for id := range weights {
		set[id] = struct{}{}
	}

	ids := make([]eventmodels.Instrument, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func cleanWeights(weights map[eventmodels.Instrument]float64) map[eventmodels.Instrument]float64 {
	clean := make(map[eventmodels.Instrument]float64, len(weights))
	for id, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			continue
		}
		clean[id] = w
	}
	return clean
}

func normalizeWeights(weights map[eventmodels.Instrument]float64) {
	sum := 0.0
	for _, w := range weights {
		sum += w
	}
	if sum == 0 {
		return
	}
	for id := range weights {
		weights[id] /= sum
	}
}

// pick returns the members of set passing the filter, sorted for
// deterministic order generation.
func pick(set map[eventmodels.Instrument]bool, keep func(eventmodels.Instrument) bool) []eventmodels.Instrument {
	var ids []eventmodels.Instrument
	for id := range set {
		if keep(id) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func dividendFor(dividends []datasource.Dividend, id eventmodels.Instrument) (dividend10, right10 float64) {
	var matches []datasource.Dividend
	for _, d := range dividends {
		if d.Instrument == id {
			matches = append(matches, d)
		}
	}

	if len(matches) > 1 {
		log.Warnf("multiple dividend records for %s", id)
		return 0, 0
	}
	if len(matches) == 1 {
		return matches[0].CashPer10, matches[0].SharesPer10
	}
	return 0, 0
}

func rightIssueFor(rightIssues []datasource.RightIssue, id eventmodels.Instrument) (rightIssue10, price float64) {
	var matches []datasource.RightIssue
	for _, r := range rightIssues {
		if r.Instrument == id {
			matches = append(matches, r)
		}
	}

	if len(matches) > 1 {
		log.Warnf("multiple right issue records for %s", id)
		return 0, 0
	}
	if len(matches) == 1 {
		return matches[0].SharesPer10, matches[0].Price
	}
	return 0, 0
}
