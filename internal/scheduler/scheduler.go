package scheduler

import (
	"fmt"
	"log"
	"path/filepath"

	"MarketLens/internal/analytics"
	"MarketLens/internal/chart"
	"MarketLens/internal/collector"
	"MarketLens/internal/model"
	"MarketLens/internal/report"
	"MarketLens/internal/store"

	"github.com/robfig/cron/v3"
)

// Chart file names under the visualizations directory.
const (
	PriceChartFile = "price_movement_chart.png"
	HeatmapFile    = "correlation_heatmap.png"
)

// Options carries the task tunables that come from configuration.
type Options struct {
	CryptoTargets     []collector.CryptoTarget
	StockTargets      []collector.StockTarget
	Analysis          analytics.Config
	ResultsFile       string
	VisualizationsDir string
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Store     store.Store
	Collector *collector.Collector
	Opts      Options
}

// NewScheduler creates a new Scheduler.
func NewScheduler(st store.Store, col *collector.Collector, opts Options) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Store:     st,
		Collector: col,
		Opts:      opts,
	}
}

// RegisterAll registers the crypto collection, stock collection, and
// nightly report tasks.
func (s *Scheduler) RegisterAll(cryptoCron, stockCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(cryptoCron, s.cryptoTask); err != nil {
		return fmt.Errorf("register crypto task: %w", err)
	}
	if _, err := s.Cron.AddFunc(stockCron, s.stockTask); err != nil {
		return fmt.Errorf("register stock task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunCryptoNow executes the crypto collection task immediately.
func (s *Scheduler) RunCryptoNow() *collector.RunSummary {
	return s.Collector.CollectCrypto(s.Opts.CryptoTargets)
}

// RunStocksNow executes the stock collection task immediately.
func (s *Scheduler) RunStocksNow() *collector.RunSummary {
	return s.Collector.CollectStocks(s.Opts.StockTargets)
}

func (s *Scheduler) cryptoTask() {
	log.Println("[INFO] running crypto collection task")
	s.RunCryptoNow()
}

func (s *Scheduler) stockTask() {
	log.Println("[INFO] running stock collection task")
	s.RunStocksNow()
}

func (s *Scheduler) reportTask() {
	log.Println("[INFO] running nightly report task")
	if _, err := s.RunAnalysisNow(); err != nil {
		log.Printf("[ERROR] nightly analysis: %v", err)
		return
	}
	if err := s.RunChartsNow(); err != nil {
		log.Printf("[ERROR] nightly charts: %v", err)
	}
}

// RunAnalysisNow loads all stored prices, runs the analysis pass, and
// writes the text report.
func (s *Scheduler) RunAnalysisNow() (*analytics.Result, error) {
	crypto, stocks, err := s.loadPrices()
	if err != nil {
		return nil, err
	}
	res, err := analytics.Analyze(crypto, stocks, s.Opts.Analysis)
	if err != nil {
		return nil, err
	}
	if err := report.WriteFile(s.Opts.ResultsFile, res); err != nil {
		return nil, err
	}
	log.Printf("[INFO] analysis report written: %s", s.Opts.ResultsFile)
	return res, nil
}

// RunChartsNow renders both chart images from current stored data.
func (s *Scheduler) RunChartsNow() error {
	crypto, stocks, err := s.loadPrices()
	if err != nil {
		return err
	}
	res, err := analytics.Analyze(crypto, stocks, s.Opts.Analysis)
	if err != nil {
		return err
	}

	pricePath := filepath.Join(s.Opts.VisualizationsDir, PriceChartFile)
	if err := chart.PriceMovement(analytics.CryptoSeries(crypto), analytics.StockSeries(stocks), pricePath); err != nil {
		return err
	}
	log.Printf("[INFO] chart written: %s", pricePath)

	heatPath := filepath.Join(s.Opts.VisualizationsDir, HeatmapFile)
	if err := chart.CorrelationHeatmap(res.Correlations, heatPath); err != nil {
		return err
	}
	log.Printf("[INFO] chart written: %s", heatPath)
	return nil
}

func (s *Scheduler) loadPrices() ([]model.CryptoPrice, []model.StockPrice, error) {
	crypto, err := s.Store.CryptoPrices()
	if err != nil {
		return nil, nil, fmt.Errorf("load crypto prices: %w", err)
	}
	stocks, err := s.Store.StockPrices()
	if err != nil {
		return nil, nil, fmt.Errorf("load stock prices: %w", err)
	}
	return crypto, stocks, nil
}
