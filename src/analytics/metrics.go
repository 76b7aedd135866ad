package analytics

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// TradingDaysPerYear is the annualization factor for daily equity curves.
const TradingDaysPerYear = 252

var ErrLengthMismatch = fmt.Errorf("series lengths do not match")

// AnnualReturns maps an equity curve to its running annualized return:
// entry i is the i+1 day return since inception, compounded to a year.
func AnnualReturns(values []float64) ([]float64, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("empty equity curve")
	}
	if values[0] == 0 {
		return nil, fmt.Errorf("equity curve starts at zero")
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Pow(v/values[0], TradingDaysPerYear/float64(i+1)) - 1
	}
	return out, nil
}

// AnnualReturn is the annualized return over the whole curve.
func AnnualReturn(values []float64) (float64, error) {
	returns, err := AnnualReturns(values)
	if err != nil {
		return 0, err
	}
	return returns[len(returns)-1], nil
}

// DailyReturns is the day-over-day simple return series, one entry shorter
// than the curve.
func DailyReturns(values []float64) ([]float64, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("need at least two points, got %d", len(values))
	}

	out := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			return nil, fmt.Errorf("equity curve hits zero at index %d", i-1)
		}
		out = append(out, values[i]/values[i-1]-1)
	}
	return out, nil
}

// AnnualVolatility is the sample standard deviation of daily returns scaled
// to a year.
func AnnualVolatility(values []float64) (float64, error) {
	returns, err := DailyReturns(values)
	if err != nil {
		return 0, err
	}

	sd, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return 0, err
	}
	return sd * math.Sqrt(TradingDaysPerYear), nil
}

// SharpeRatio is the annualized excess return over the risk free rate per
// unit of annualized volatility.
func SharpeRatio(values []float64, riskFreeRate float64) (float64, error) {
	annualReturn, err := AnnualReturn(values)
	if err != nil {
		return 0, err
	}

	volatility, err := AnnualVolatility(values)
	if err != nil {
		return 0, err
	}
	if volatility == 0 {
		return 0, fmt.Errorf("zero volatility")
	}
	return (annualReturn - riskFreeRate) / volatility, nil
}

// MaxDrawdown is the largest peak-to-trough loss of the curve, as a positive
// fraction.
func MaxDrawdown(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("empty equity curve")
	}

	peak := values[0]
	maxDrawdown := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak == 0 {
			continue
		}
		if drawdown := (peak - v) / peak; drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}
	return maxDrawdown, nil
}

// InformationRatio measures the annualized active return against the
// benchmark per unit of tracking error. Both curves must cover the same
// dates; a length mismatch is a hard error, never silently truncated.
func InformationRatio(values, benchmark []float64) (float64, error) {
	if len(values) != len(benchmark) {
		return 0, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(values), len(benchmark))
	}

	portfolioReturns, err := DailyReturns(values)
	if err != nil {
		return 0, err
	}
	benchmarkReturns, err := DailyReturns(benchmark)
	if err != nil {
		return 0, err
	}

	active := make([]float64, len(portfolioReturns))
	for i := range portfolioReturns {
		active[i] = portfolioReturns[i] - benchmarkReturns[i]
	}

	mean, err := stats.Mean(active)
	if err != nil {
		return 0, err
	}
	sd, err := stats.StandardDeviationSample(active)
	if err != nil {
		return 0, err
	}
	if sd == 0 {
		return 0, fmt.Errorf("zero tracking error")
	}

	return mean * TradingDaysPerYear / (sd * math.Sqrt(TradingDaysPerYear)), nil
}

// Summary bundles the standard report for one equity curve.
type Summary struct {
	AnnualReturn     float64
	AnnualVolatility float64
	SharpeRatio      float64
	MaxDrawdown      float64
}

// Summarize computes the standard metrics at once. riskFreeRate feeds the
// Sharpe ratio only.
func Summarize(values []float64, riskFreeRate float64) (*Summary, error) {
	annualReturn, err := AnnualReturn(values)
	if err != nil {
		return nil, err
	}
	volatility, err := AnnualVolatility(values)
	if err != nil {
		return nil, err
	}
	sharpe, err := SharpeRatio(values, riskFreeRate)
	if err != nil {
		return nil, err
	}
	maxDrawdown, err := MaxDrawdown(values)
	if err != nil {
		return nil, err
	}

	return &Summary{
		AnnualReturn:     annualReturn,
		AnnualVolatility: volatility,
		SharpeRatio:      sharpe,
		MaxDrawdown:      maxDrawdown,
	}, nil
}
