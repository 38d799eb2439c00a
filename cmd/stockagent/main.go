package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dandev947366/stock-analysis-agent/internal/app"
	"github.com/dandev947366/stock-analysis-agent/internal/common"
	"github.com/dandev947366/stock-analysis-agent/internal/interfaces"
	"github.com/dandev947366/stock-analysis-agent/internal/models"
	"github.com/dandev947366/stock-analysis-agent/internal/signals"
)

func main() {
	configPath := os.Getenv("STOCKAGENT_CONFIG")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Ctrl+C cancels the in-flight analysis and exits the loop
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	a, err := app.NewApp(ctx, configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	common.PrintBanner(a.Config, a.Logger)

	// One-shot mode: tickers on the command line, no prompt loop
	if len(os.Args) > 1 {
		exitCode := 0
		for _, arg := range os.Args[1:] {
			ticker := common.NormalizeTicker(arg, a.Config.Exchange)
			if err := runAnalysis(ctx, a, ticker, false); err != nil {
				fmt.Fprintf(os.Stderr, "Error analyzing %s: %v\n", ticker, err)
				exitCode = 1
			}
		}
		common.PrintShutdownBanner(a.Logger)
		os.Exit(exitCode)
	}

	runLoop(ctx, a)
	common.PrintShutdownBanner(a.Logger)
}

// runLoop reads ticker symbols from stdin until exit/quit or EOF.
func runLoop(ctx context.Context, a *app.App) {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Print("\nEnter stock ticker (or 'exit' to quit): ")
		if !scanner.Scan() {
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			fmt.Println("Please enter a valid ticker symbol")
			continue
		}

		fields := strings.Fields(line)
		verb := strings.ToLower(fields[0])

		switch verb {
		case "exit", "quit":
			fmt.Println("Terminating analysis session...")
			return

		case "reports":
			printReportList(ctx, a)

		case "report":
			if len(fields) < 2 {
				fmt.Println("Usage: report <ticker>")
				continue
			}
			printSavedReport(ctx, a, common.NormalizeTicker(fields[1], a.Config.Exchange))

		case "refresh":
			if len(fields) < 2 {
				fmt.Println("Usage: refresh <ticker>")
				continue
			}
			ticker := common.NormalizeTicker(fields[1], a.Config.Exchange)
			if err := runAnalysis(ctx, a, ticker, true); err != nil {
				fmt.Printf("\nError analyzing %s: %v\n", ticker, err)
			}

		default:
			ticker := common.NormalizeTicker(line, a.Config.Exchange)
			if err := runAnalysis(ctx, a, ticker, false); err != nil {
				fmt.Printf("\nError analyzing %s: %v\n", ticker, err)
			}
		}
	}
}

// runAnalysis collects data, prints the company snapshot, then executes
// the pipeline and prints the report. The snapshot comes first so the
// user sees something before the slow LLM stages.
func runAnalysis(ctx context.Context, a *app.App, ticker string, force bool) error {
	fmt.Printf("\nAnalyzing %s...\n", ticker)

	data, err := a.MarketService.CollectMarketData(ctx, ticker, force)
	if err != nil {
		return err
	}
	printBasicInfo(data)

	// The collection above is still fresh, so the pipeline's own collect
	// reuses it rather than refetching.
	report, err := a.AnalysisService.Analyze(ctx, ticker, interfaces.AnalyzeOptions{})
	if err != nil {
		return err
	}

	printReport(report)
	return nil
}

// printBasicInfo prints the quick company summary ahead of the pipeline.
func printBasicInfo(data *models.MarketData) {
	name := data.Name
	if name == "" {
		name = data.Ticker
	}
	fmt.Printf("\n%s\n", name)

	if f := data.Fundamentals; f != nil {
		if f.Sector != "" {
			fmt.Printf("  Sector:         %s\n", f.Sector)
		}
		if f.Industry != "" {
			fmt.Printf("  Industry:       %s\n", f.Industry)
		}
		fmt.Printf("  Market Cap:     %s\n", common.FormatMarketCap(f.MarketCap))
		if f.High52Week > 0 {
			fmt.Printf("  52-Week Range:  %s - %s\n",
				common.FormatMoney(f.Low52Week), common.FormatMoney(f.High52Week))
		}
	}

	if data.Quote != nil && data.Quote.Close > 0 {
		fmt.Printf("  Current Price:  %s (%s)\n",
			common.FormatMoney(data.Quote.Close), common.FormatSignedPct(data.Quote.ChangePct))
	} else if len(data.EOD) > 0 {
		fmt.Printf("  Last Close:     %s\n", common.FormatMoney(data.EOD[0].Close))
	}

	if avg := signals.AverageVolume(data.EOD, 20); avg > 0 {
		fmt.Printf("  Avg Volume:     %s\n", common.FormatVolume(avg))
	}
}

func printReport(report *models.AnalysisReport) {
	hr := strings.Repeat("=", 80)

	fmt.Println("\n" + hr)
	title := report.Ticker
	if report.Name != "" {
		title = fmt.Sprintf("%s (%s)", report.Name, report.Ticker)
	}
	fmt.Printf("INVESTMENT RESEARCH REPORT: %s\n", title)
	fmt.Println(hr)

	fmt.Println("\nFUNDAMENTAL ANALYSIS:")
	fmt.Println(report.Fundamental)

	fmt.Println("\nTECHNICAL ANALYSIS:")
	fmt.Println(report.Technical)

	fmt.Println("\nINVESTMENT RECOMMENDATION:")
	fmt.Println(report.Recommendation)

	fmt.Println("\n" + hr)
	fmt.Printf("Analysis completed in %s", report.Elapsed)
	if report.ChartPath != "" {
		fmt.Printf(" (chart: %s)", report.ChartPath)
	}
	fmt.Println()
}

func printReportList(ctx context.Context, a *app.App) {
	reports, err := a.Storage.ReportStorage().ListReports(ctx)
	if err != nil {
		fmt.Printf("Failed to list reports: %v\n", err)
		return
	}
	if len(reports) == 0 {
		fmt.Println("No saved reports")
		return
	}

	fmt.Println("\nSaved reports:")
	for _, r := range reports {
		fmt.Printf("  %-12s %s  (%s)\n", r.Ticker, r.GeneratedAt.Format("2006-01-02 15:04"), r.Model)
	}
}

func printSavedReport(ctx context.Context, a *app.App, ticker string) {
	report, err := a.Storage.ReportStorage().GetReport(ctx, ticker)
	if err != nil {
		fmt.Printf("%v\n", err)
		return
	}
	printReport(report)
}
