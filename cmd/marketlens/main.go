package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"MarketLens/internal/analytics"
	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/scheduler"
	"MarketLens/internal/store"
)

const (
	// progressTarget is the row count per symbol the progress view treats
	// as enough history for a meaningful analysis.
	progressTarget = 100

	// collectionRuns is how many budgeted passes "run everything" makes
	// per market.
	collectionRuns = 5
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] MarketLens starting...")

	daemon := flag.Bool("daemon", false, "run scheduled collection instead of the interactive menu")
	flag.Parse()

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Fatalf("[FATAL] open sqlite store: %v", err)
		}
		st = ss
	} else {
		log.Println("[WARN] no sqlite path configured, prices will not survive restarts")
		st = store.NewMemoryStore()
	}
	defer st.Close()

	// Init fetchers
	gecko := collector.NewCoinGeckoFetcher(cfg.CoinGecko.BaseURL, cfg.Proxy)
	av := collector.NewAlphaVantageFetcher(cfg.AlphaVantage.BaseURL, cfg.AlphaVantage.APIKey, cfg.Proxy)
	log.Printf("[INFO] data sources: %s, %s", gecko.Name(), av.Name())
	if cfg.AlphaVantage.APIKey == "" {
		log.Println("[WARN] alphavantage api key not set, stock collection will fail (set ALPHAVANTAGE_API_KEY)")
	}

	// Init collector
	col := &collector.Collector{
		Store:         st,
		CryptoSource:  gecko,
		StockSource:   av,
		MaxRowsPerRun: cfg.Collection.MaxRowsPerRun,
		HistoryDays:   cfg.Collection.HistoryDays,
		CryptoDelay:   cfg.CryptoDelay(),
		StockDelay:    cfg.StockDelay(),
	}

	sched := scheduler.NewScheduler(st, col, scheduler.Options{
		CryptoTargets: cryptoTargets(cfg),
		StockTargets:  stockTargets(cfg),
		Analysis: analytics.Config{
			MomentumWindow: cfg.Analysis.MomentumWindow,
			TopMovers:      cfg.Analysis.TopMovers,
		},
		ResultsFile:       cfg.Output.ResultsFile,
		VisualizationsDir: cfg.Output.VisualizationsDir,
	})

	if *daemon {
		runDaemon(sched, st, cfg)
		return
	}
	runMenu(sched, st, cfg)
}

func cryptoTargets(cfg *config.Config) []collector.CryptoTarget {
	targets := make([]collector.CryptoTarget, len(cfg.Symbols.Crypto))
	for i, s := range cfg.Symbols.Crypto {
		targets[i] = collector.CryptoTarget{Symbol: s.Symbol, Name: s.Name, CoinGeckoID: s.CoinGeckoID}
	}
	return targets
}

func stockTargets(cfg *config.Config) []collector.StockTarget {
	targets := make([]collector.StockTarget, len(cfg.Symbols.Stocks))
	for i, s := range cfg.Symbols.Stocks {
		targets[i] = collector.StockTarget{Symbol: s.Symbol, Name: s.Name}
	}
	return targets
}

// registerSymbols makes sure every configured symbol has an integer id
// before collection runs refer to it.
func registerSymbols(st store.Store, cfg *config.Config) error {
	for _, s := range cfg.Symbols.Crypto {
		id, err := st.EnsureCryptoSymbol(s.Symbol, s.Name)
		if err != nil {
			return fmt.Errorf("register %s: %w", s.Symbol, err)
		}
		log.Printf("[INFO] %s (%s) registered with id %d", s.Name, s.Symbol, id)
	}
	for _, s := range cfg.Symbols.Stocks {
		id, err := st.EnsureStockSymbol(s.Symbol, s.Name)
		if err != nil {
			return fmt.Errorf("register %s: %w", s.Symbol, err)
		}
		log.Printf("[INFO] %s (%s) registered with id %d", s.Name, s.Symbol, id)
	}
	return nil
}

// runDaemon registers the cron tasks and blocks until a shutdown signal.
func runDaemon(sched *scheduler.Scheduler, st store.Store, cfg *config.Config) {
	if err := registerSymbols(st, cfg); err != nil {
		log.Fatalf("[FATAL] register symbols: %v", err)
	}
	if err := sched.RegisterAll(cfg.Schedule.CryptoCron, cfg.Schedule.StockCron, cfg.Schedule.ReportCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, collecting now")
		go func() {
			sched.RunCryptoNow()
			sched.RunStocksNow()
		}()
	}

	log.Println("[INFO] MarketLens is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
}

// runMenu drives the interactive launcher until the user exits or stdin
// closes.
func runMenu(sched *scheduler.Scheduler, st store.Store, cfg *config.Config) {
	in := bufio.NewScanner(os.Stdin)
	for {
		printMenu(cfg)
		choice, ok := prompt(in, "Enter your choice: ")
		if !ok {
			fmt.Println()
			return
		}
		switch strings.TrimSpace(choice) {
		case "0":
			fmt.Println("Exiting.")
			return
		case "1":
			doInit(st, cfg)
		case "2":
			doCollectCrypto(sched)
		case "3":
			doCollectStocks(sched)
		case "4":
			doProgress(st, cfg)
		case "5":
			doAnalysis(sched)
		case "6":
			doCharts(sched)
		case "7":
			doEverything(in, sched, st, cfg)
		case "8":
			doSummary(st)
		default:
			fmt.Println("Invalid choice. Please try again.")
		}
	}
}

func prompt(in *bufio.Scanner, msg string) (string, bool) {
	fmt.Print(msg)
	if !in.Scan() {
		return "", false
	}
	return in.Text(), true
}

func printMenu(cfg *config.Config) {
	line := strings.Repeat("=", 70)
	fmt.Println("\n" + line)
	fmt.Println("MARKETLENS - CRYPTOCURRENCY & TECH STOCK ANALYSIS")
	fmt.Println(line)
	fmt.Println("Current status:")
	fmt.Printf("  Database:     %s\n", pathStatus(cfg.Database.SQLitePath))
	fmt.Printf("  Results file: %s\n", pathStatus(cfg.Output.ResultsFile))
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  1. Initialize database and register symbols")
	fmt.Println("  2. Collect cryptocurrency data")
	fmt.Println("  3. Collect stock data")
	fmt.Println("  4. Check data collection progress")
	fmt.Println("  5. Run analysis")
	fmt.Println("  6. Create charts")
	fmt.Println("  7. Run everything")
	fmt.Println("  8. View database summary")
	fmt.Println("  0. Exit")
	fmt.Println(line)
}

func pathStatus(path string) string {
	if path == "" {
		return "in-memory"
	}
	if _, err := os.Stat(path); err != nil {
		return path + " (not created)"
	}
	return path
}

func doInit(st store.Store, cfg *config.Config) {
	fmt.Println("\nRegistering configured symbols...")
	if err := registerSymbols(st, cfg); err != nil {
		fmt.Printf("Initialization failed: %v\n", err)
		return
	}
	fmt.Println("Database initialized.")
}

func doCollectCrypto(sched *scheduler.Scheduler) {
	fmt.Println("\nFetching daily history from CoinGecko...")
	printRunSummary(sched.RunCryptoNow())
}

func doCollectStocks(sched *scheduler.Scheduler) {
	fmt.Println("\nFetching daily bars from Alpha Vantage. Rate limits make this slow.")
	printRunSummary(sched.RunStocksNow())
}

func printRunSummary(sum *collector.RunSummary) {
	fmt.Printf("Inserted %d rows, skipped %d duplicates.\n", sum.Inserted, sum.Skipped)
	if len(sum.Failed) > 0 {
		fmt.Printf("Failed symbols: %s\n", strings.Join(sum.Failed, ", "))
	}
}

func doProgress(st store.Store, cfg *config.Config) {
	sum, err := st.Summary()
	if err != nil {
		fmt.Printf("Progress unavailable: %v\n", err)
		return
	}

	fmt.Println("\nCRYPTOCURRENCY DATA:")
	total := printProgress(sum.Crypto)
	for _, s := range cfg.Symbols.Crypto {
		if !hasStatus(sum.Crypto, s.Symbol) {
			fmt.Printf("  %-5s: not registered (run option 1)\n", s.Symbol)
		}
	}

	fmt.Println("\nSTOCK DATA:")
	total += printProgress(sum.Stocks)
	for _, s := range cfg.Symbols.Stocks {
		if !hasStatus(sum.Stocks, s.Symbol) {
			fmt.Printf("  %-5s: not registered (run option 1)\n", s.Symbol)
		}
	}

	fmt.Printf("\nTOTAL: %d rows collected\n", total)
	fmt.Printf("Target: %d+ rows per symbol before analysis is meaningful.\n", progressTarget)
}

func printProgress(statuses []store.SymbolStatus) int {
	total := 0
	for _, s := range statuses {
		status := "DONE"
		if s.Rows < progressTarget {
			status = fmt.Sprintf("need %d more", progressTarget-s.Rows)
		}
		fmt.Printf("  %-5s: %4d rows  [%s]\n", s.Symbol, s.Rows, status)
		total += s.Rows
	}
	return total
}

func hasStatus(statuses []store.SymbolStatus, symbol string) bool {
	for _, s := range statuses {
		if s.Symbol == symbol {
			return true
		}
	}
	return false
}

func doAnalysis(sched *scheduler.Scheduler) {
	fmt.Println("\nAnalyzing stored prices...")
	if _, err := sched.RunAnalysisNow(); err != nil {
		fmt.Printf("Analysis failed: %v\n", err)
		fmt.Println("Collect more data first (options 2 and 3).")
		return
	}
	fmt.Printf("Results saved to %s\n", sched.Opts.ResultsFile)
}

func doCharts(sched *scheduler.Scheduler) {
	fmt.Println("\nRendering charts...")
	if err := sched.RunChartsNow(); err != nil {
		fmt.Printf("Chart rendering failed: %v\n", err)
		return
	}
	fmt.Printf("Charts saved to %s\n", sched.Opts.VisualizationsDir)
}

func doEverything(in *bufio.Scanner, sched *scheduler.Scheduler, st store.Store, cfg *config.Config) {
	fmt.Println("\nThis runs collection five times per market, then analysis and charts.")
	fmt.Println("API rate limits make this take several minutes.")
	answer, ok := prompt(in, "Continue? (y/n): ")
	if !ok || !strings.EqualFold(strings.TrimSpace(answer), "y") {
		fmt.Println("Cancelled.")
		return
	}

	doInit(st, cfg)
	for i := 1; i <= collectionRuns; i++ {
		fmt.Printf("\n--- Crypto collection run %d/%d ---\n", i, collectionRuns)
		sched.RunCryptoNow()
	}
	for i := 1; i <= collectionRuns; i++ {
		fmt.Printf("\n--- Stock collection run %d/%d ---\n", i, collectionRuns)
		sched.RunStocksNow()
	}
	doProgress(st, cfg)
	doAnalysis(sched)
	doCharts(sched)
	fmt.Println("\nAll steps complete.")
}

func doSummary(st store.Store) {
	sum, err := st.Summary()
	if err != nil {
		fmt.Printf("Summary unavailable: %v\n", err)
		return
	}
	fmt.Println("\nREGISTERED CRYPTOCURRENCIES:")
	printSymbolTable(sum.Crypto)
	fmt.Println("\nREGISTERED STOCKS:")
	printSymbolTable(sum.Stocks)
}

func printSymbolTable(statuses []store.SymbolStatus) {
	if len(statuses) == 0 {
		fmt.Println("  (none, run option 1)")
		return
	}
	for _, s := range statuses {
		last := "no data"
		if s.LastDate != 0 {
			last = s.LastDate.String()
		}
		fmt.Printf("  ID %d: %-5s %-25s %4d rows, latest %s\n", s.ID, s.Symbol, s.Name, s.Rows, last)
	}
}
