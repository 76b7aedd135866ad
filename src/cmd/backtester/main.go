package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wqtech/bullet/src/analytics"
	"github.com/wqtech/bullet/src/datafeed"
	"github.com/wqtech/bullet/src/datasource"
	"github.com/wqtech/bullet/src/eventmodels"
	"github.com/wqtech/bullet/src/execution"
	"github.com/wqtech/bullet/src/strats"
	"github.com/wqtech/bullet/src/utils"
)

type runConfig struct {
	StartDate string `yaml:"start_date"`
	EndDate   string `yaml:"end_date"`

	Cash           float64 `yaml:"cash"`
	CommissionRate float64 `yaml:"commission_rate"`
	MarketImpact   float64 `yaml:"market_impact"`

	Freq         int     `yaml:"freq"`
	LotSize      int64   `yaml:"lot_size"`
	PositionRate float64 `yaml:"position_rate"`
	RiskFreeRate float64 `yaml:"risk_free_rate"`

	SellAllBeforeBuy bool `yaml:"sell_all_before_buy"`

	Universe []string `yaml:"universe"`
	Weights  string   `yaml:"weights"`

	Data datasource.CSVConfig `yaml:"data"`
}

func loadConfig(path string) (*runConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := &runConfig{
		Cash:           1_000_000,
		CommissionRate: 0.0005,
		MarketImpact:   2,
		Freq:           1,
		LotSize:        100,
		PositionRate:   0.98,
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if cfg.StartDate == "" || cfg.EndDate == "" {
		return nil, fmt.Errorf("config requires start_date and end_date")
	}
	if cfg.Weights == "" {
		return nil, fmt.Errorf("config requires a weights file")
	}

	return cfg, nil
}

func run(configPath string, showCurve bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	source, err := datasource.NewCSVDataSource(cfg.Data)
	if err != nil {
		return err
	}

	model, err := strats.NewCSVWeightModel(cfg.Weights)
	if err != nil {
		return err
	}

	universe := make([]eventmodels.Instrument, 0, len(cfg.Universe))
	for _, id := range cfg.Universe {
		universe = append(universe, eventmodels.NewInstrument(id))
	}

	engine := execution.NewStockBacktestEngine(cfg.CommissionRate, cfg.MarketImpact)

	opts := strats.DefaultAdjustOptions()
	opts.PositionRate = cfg.PositionRate
	opts.LotSize = cfg.LotSize
	opts.EnableSellAllBeforeBuy = cfg.SellAllBeforeBuy

	strategy, err := strats.NewStockStrategy(strats.StockStrategyConfig{
		TotalAsset: cfg.Cash,
		Source:     source,
		Engine:     engine,
		Model:      model,
		Universe:   universe,
		EndDate:    cfg.EndDate,
		Freq:       cfg.Freq,
		Options:    opts,
	})
	if err != nil {
		return err
	}

	publisher := datafeed.NewDailyBacktestPublisher(source)
	if _, err := publisher.AddSubscriber(strategy); err != nil {
		return err
	}

	log.Infof("backtest run %s: replaying %s to %s", uuid.NewString(), cfg.StartDate, cfg.EndDate)
	if err := publisher.Connect(cfg.StartDate, cfg.EndDate); err != nil {
		return err
	}

	mtms := strategy.Mtms()
	if mtms.Len() == 0 {
		return fmt.Errorf("no trading dates replayed")
	}

	if showCurve {
		renderCurve(mtms)
	}
	return renderSummary(mtms, cfg.RiskFreeRate)
}

func renderCurve(mtms *utils.Series) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Date", "Total Asset"})

	values := mtms.Values()
	for i, date := range mtms.Dates() {
		table.Append([]string{date, fmt.Sprintf("%.2f", values[i])})
	}
	table.Render()
}

func renderSummary(mtms *utils.Series, riskFreeRate float64) error {
	summary, err := analytics.Summarize(mtms.Values(), riskFreeRate)
	if err != nil {
		return fmt.Errorf("failed to compute metrics: %w", err)
	}

	_, finalAsset, _ := mtms.Last()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Final Asset", fmt.Sprintf("%.2f", finalAsset)})
	table.Append([]string{"Annual Return", fmt.Sprintf("%.4f", summary.AnnualReturn)})
	table.Append([]string{"Annual Volatility", fmt.Sprintf("%.4f", summary.AnnualVolatility)})
	table.Append([]string{"Sharpe Ratio", fmt.Sprintf("%.4f", summary.SharpeRatio)})
	table.Append([]string{"Max Drawdown", fmt.Sprintf("%.4f", summary.MaxDrawdown)})
	table.Render()

	return nil
}

func main() {
	var configPath string
	var showCurve bool

	rootCmd := &cobra.Command{
		Use:   "backtester",
		Short: "Replays a weight-rebalancing stock strategy over historical data",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, showCurve)
		},
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "backtest.yaml", "path to the run configuration")
	rootCmd.Flags().BoolVar(&showCurve, "curve", false, "print the full equity curve")

	if err := utils.InitEnvironmentVariables(); err != nil {
		log.Warnf("failed to load environment: %v", err)
	}
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
