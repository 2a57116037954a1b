// Command benchmark times product extraction against a running adscout API
// and reports which tier served each URL.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
)

func main() {
	if err := Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// CLI is the command line of the benchmark.
type CLI struct {
	APIURL  string        `name:"api-url" default:"http://localhost:5001" help:"adscout API base URL"`
	Runs    int           `short:"n" default:"3" help:"Runs per URL for averaging"`
	Mode    string        `short:"m" default:"auto" enum:"auto,static,browser" help:"Fetch mode sent with every request"`
	Timeout time.Duration `short:"t" default:"150s" help:"Client timeout per request"`
	Output  string        `short:"o" default:"benchmark-results.json" help:"JSON report path ('' to skip)"`
	URLs    []string      `arg:"" optional:"" help:"Product pages to benchmark (default: built-in set)"`
}

// defaultURLs covers server-rendered and script-rendered storefronts.
var defaultURLs = []string{
	"https://www.allbirds.com/products/mens-tree-runners",
	"https://www.patagonia.com/product/mens-better-sweater-fleece-jacket/25528.html",
	"https://www.ikea.com/us/en/p/poaeng-armchair-birch-veneer-knisa-light-beige-s49305854/",
	"https://www.zara.com/us/en/textured-knit-sweater-p03166101.html",
}

// Run parses args and executes the benchmark, writing progress to stdout.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("benchmark"),
		kong.Description("Benchmark adscout product extraction"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}
	if cli.Runs < 1 {
		return fmt.Errorf("runs must be at least 1")
	}

	urls := cli.URLs
	if len(urls) == 0 {
		urls = defaultURLs
	}

	b := &benchmark{
		apiURL: strings.TrimRight(cli.APIURL, "/"),
		mode:   cli.Mode,
		client: &http.Client{Timeout: cli.Timeout},
	}

	fmt.Fprintln(stdout, "=== adscout Benchmark ===")
	fmt.Fprintf(stdout, "API URL:   %s\n", b.apiURL)
	fmt.Fprintf(stdout, "Mode:      %s\n", b.mode)
	fmt.Fprintf(stdout, "Runs/URL:  %d\n\n", cli.Runs)

	if err := b.checkAPI(ctx); err != nil {
		return fmt.Errorf("cannot reach API at %s: %w", b.apiURL, err)
	}

	report := benchmarkReport{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		APIURL:     b.apiURL,
		Mode:       b.mode,
		RunsPerURL: cli.Runs,
	}

	for _, u := range urls {
		fmt.Fprintf(stdout, "Benchmarking %s ...\n", u)
		ur := urlResult{URL: u}
		for i := 1; i <= cli.Runs; i++ {
			rr := b.run(ctx, u, i)
			if rr.Success {
				fmt.Fprintf(stdout, "  Run %d/%d  OK  %dms  %s  %d images\n", i, cli.Runs, rr.TotalMs, rr.Tier, rr.Images)
			} else {
				fmt.Fprintf(stdout, "  Run %d/%d  FAILED: %s\n", i, cli.Runs, rr.Error)
			}
			ur.Runs = append(ur.Runs, rr)
		}
		ur.Summary = summarize(ur.Runs)
		report.Results = append(report.Results, ur)
	}

	fmt.Fprintln(stdout)
	printTable(stdout, report.Results)

	if cli.Output == "" {
		return nil
	}
	if err := writeJSON(cli.Output, report); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	fmt.Fprintf(stdout, "\nDetailed results written to %s\n", cli.Output)
	return nil
}

// --- API types (mirror the models package) ---

type productResponse struct {
	Success     bool     `json:"success"`
	BrandName   string   `json:"brandName"`
	ProductName string   `json:"productName"`
	Images      []string `json:"images"`
	Tier        string   `json:"tier"`
	Timing      struct {
		TotalMs int64 `json:"total_ms"`
	} `json:"timing"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Report types ---

type runResult struct {
	Run     int    `json:"run"`
	TotalMs int64  `json:"total_ms"`
	Tier    string `json:"tier,omitempty"`
	Images  int    `json:"images"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type urlSummary struct {
	AvgMs        float64 `json:"avg_ms"`
	StaticRuns   int     `json:"static_runs"`
	DynamicRuns  int     `json:"dynamic_runs"`
	MaxImages    int     `json:"max_images"`
	SuccessRatio float64 `json:"success_ratio"`
}

type urlResult struct {
	URL     string      `json:"url"`
	Runs    []runResult `json:"runs"`
	Summary *urlSummary `json:"summary,omitempty"`
}

type benchmarkReport struct {
	Timestamp  string      `json:"timestamp"`
	APIURL     string      `json:"api_url"`
	Mode       string      `json:"mode"`
	RunsPerURL int         `json:"runs_per_url"`
	Results    []urlResult `json:"results"`
}

type benchmark struct {
	apiURL string
	mode   string
	client *http.Client
}

func (b *benchmark) checkAPI(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.apiURL+"/api/v1/health", nil)
	if err != nil {
		return err
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health returned %d", resp.StatusCode)
	}
	return nil
}

func (b *benchmark) run(ctx context.Context, pageURL string, run int) runResult {
	rr := runResult{Run: run}

	body, err := json.Marshal(map[string]string{"url": pageURL, "fetch_mode": b.mode})
	if err != nil {
		rr.Error = fmt.Sprintf("marshal error: %v", err)
		return rr
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.apiURL+"/api/v1/products", bytes.NewReader(body))
	if err != nil {
		rr.Error = fmt.Sprintf("request error: %v", err)
		return rr
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := b.client.Do(req)
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()

	var pr productResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}

	rr.TotalMs = time.Since(start).Milliseconds()
	rr.Success = pr.Success
	rr.Tier = pr.Tier
	rr.Images = len(pr.Images)
	if pr.Error != nil {
		rr.Error = fmt.Sprintf("[%s] %s", pr.Error.Code, pr.Error.Message)
	}
	return rr
}

func summarize(runs []runResult) *urlSummary {
	var s urlSummary
	var ok int
	for _, r := range runs {
		if !r.Success {
			continue
		}
		ok++
		s.AvgMs += float64(r.TotalMs)
		switch r.Tier {
		case "static":
			s.StaticRuns++
		case "dynamic":
			s.DynamicRuns++
		}
		if r.Images > s.MaxImages {
			s.MaxImages = r.Images
		}
	}
	if ok == 0 {
		return nil
	}
	s.AvgMs /= float64(ok)
	s.SuccessRatio = float64(ok) / float64(len(runs))
	return &s
}

func printTable(w io.Writer, results []urlResult) {
	fmt.Fprintln(w, strings.Repeat("─", 85))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "URL\tAvg Latency\tStatic/Dynamic\tImages\tSuccess\n")
	fmt.Fprintf(tw, "───\t───────────\t──────────────\t──────\t───────\n")
	for _, r := range results {
		if r.Summary == nil {
			fmt.Fprintf(tw, "%s\tFAILED\t-\t-\t0%%\n", truncateURL(r.URL, 45))
			continue
		}
		fmt.Fprintf(tw, "%s\t%dms\t%d/%d\t%d\t%.0f%%\n",
			truncateURL(r.URL, 45),
			int64(r.Summary.AvgMs),
			r.Summary.StaticRuns, r.Summary.DynamicRuns,
			r.Summary.MaxImages,
			r.Summary.SuccessRatio*100,
		)
	}
	tw.Flush()
	fmt.Fprintln(w, strings.Repeat("─", 85))
}

func truncateURL(u string, max int) string {
	if len(u) <= max {
		return u
	}
	return u[:max-3] + "..."
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
