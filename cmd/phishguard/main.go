package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jmerrifield20/phishguard/internal/analysis"
	"github.com/jmerrifield20/phishguard/internal/samples"
	"github.com/jmerrifield20/phishguard/internal/threat"
	"github.com/jmerrifield20/phishguard/pkg/client"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// version is overridden via -ldflags "-X main.version=...".
var version = "dev"

var (
	serverURL string
	cfgFile   string
	timeout   time.Duration
	insecure  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "phishguard",
	Short: "PhishGuard email threat analyzer",
	Long: `phishguard scores email text for phishing indicators.

Analysis runs locally unless a server is configured with --server,
the server_url config key or the SERVER_URL environment variable.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()

		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(home + "/.phishguard")
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
		viper.AutomaticEnv()
		_ = viper.ReadInConfig()

		if serverURL == "" {
			serverURL = viper.GetString("server_url")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.phishguard/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "phishguard-server URL; analyze locally when empty")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout when talking to a server")
	rootCmd.PersistentFlags().BoolVar(&insecure, "insecure", false, "Skip TLS certificate verification (development only)")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(samplesCmd)
	rootCmd.AddCommand(versionCmd)
}

func newClient() (*client.Client, error) {
	opts := []client.Option{}
	if insecure {
		opts = append(opts, client.WithInsecureSkipVerify())
	}
	opts = append(opts, client.WithTimeout(timeout))
	return client.New(serverURL, opts...)
}

// ── analyze ──────────────────────────────────────────────────────────────────

var (
	analyzeFormat  string
	analyzeMessage bool
	analyzeSample  string
	analyzeFailOn  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file|-]",
	Short: "Score email text for phishing indicators",
	Long: `Analyze reads email text from a file, or from stdin when the argument is
omitted or "-", and prints the risk level, score and indicators.

  phishguard analyze suspicious.txt
  cat raw.eml | phishguard analyze --message
  phishguard analyze --sample phishing --format json
  phishguard analyze --fail-on suspicious message.txt`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "text", "Output format: text or json")
	analyzeCmd.Flags().BoolVar(&analyzeMessage, "message", false, "Treat input as a raw RFC 5322 message")
	analyzeCmd.Flags().StringVar(&analyzeSample, "sample", "", "Analyze a built-in sample (phishing, legitimate, suspicious)")
	analyzeCmd.Flags().StringVar(&analyzeFailOn, "fail-on", "", "Exit non-zero when the risk level is at least this tier (safe, suspicious, dangerous)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	var failOn threat.Tier
	if analyzeFailOn != "" {
		t, ok := threat.ParseTier(analyzeFailOn)
		if !ok {
			return fmt.Errorf("invalid --fail-on tier %q", analyzeFailOn)
		}
		failOn = t
	}

	raw, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var report *client.Report
	if serverURL != "" {
		c, err := newClient()
		if err != nil {
			return err
		}
		if analyzeMessage {
			report, err = c.AnalyzeMessage(ctx, bytes.NewReader(raw))
		} else {
			report, err = c.Analyze(ctx, string(raw))
		}
		if err != nil {
			return err
		}
	} else {
		svc := analysis.NewService(nil, analysis.DefaultConfig(), zap.NewNop())
		var r *analysis.Report
		if analyzeMessage {
			r, err = svc.AnalyzeMessage(ctx, bytes.NewReader(raw))
		} else {
			r, err = svc.Analyze(ctx, string(raw))
		}
		if err != nil {
			return err
		}
		report = fromLocal(r)
	}

	if analyzeFormat == "json" {
		err = printJSON(report)
	} else {
		err = printReport(report)
	}
	if err != nil {
		return err
	}
	return checkFailOn(report, failOn)
}

// checkFailOn returns an error when failOn is set and the report's risk level
// reaches it.
func checkFailOn(r *client.Report, failOn threat.Tier) error {
	if failOn == "" {
		return nil
	}
	if threat.Tier(r.RiskLevel).AtLeast(failOn) {
		return fmt.Errorf("risk level %s (score %d) is at least %s", r.RiskLevel, r.Score, failOn)
	}
	return nil
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if analyzeSample != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("--sample cannot be combined with an input file")
		}
		if serverURL != "" {
			c, err := newClient()
			if err != nil {
				return nil, err
			}
			text, err := c.Sample(context.Background(), analyzeSample)
			if err != nil {
				return nil, err
			}
			return []byte(text), nil
		}
		text, ok := samples.Lookup(analyzeSample)
		if !ok {
			return nil, fmt.Errorf("unknown sample %q (want one of %s)", analyzeSample, strings.Join(samples.Kinds(), ", "))
		}
		return []byte(text), nil
	}

	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", args[0], err)
	}
	return b, nil
}

// fromLocal converts a locally produced report into the wire shape so both
// modes share one printer.
func fromLocal(r *analysis.Report) *client.Report {
	out := &client.Report{
		RequestID:  r.RequestID,
		RiskLevel:  string(r.Tier),
		Label:      r.Label,
		Score:      r.Score,
		Characters: r.Characters,
		LongInput:  r.LongInput,
		Subject:    r.Subject,
		From:       r.From,
		Indicators: make([]client.Indicator, 0, len(r.Indicators)),
	}
	for _, ind := range r.Indicators {
		out.Indicators = append(out.Indicators, client.Indicator{
			Type:     string(ind.Type),
			Message:  ind.Message,
			Severity: string(ind.Severity),
		})
	}
	return out
}

func printReport(r *client.Report) error {
	fmt.Printf("Risk Level: %s (%s)\n", r.Label, r.RiskLevel)
	fmt.Printf("Score:      %d/100\n", r.Score)
	if r.Subject != "" {
		fmt.Printf("Subject:    %s\n", r.Subject)
	}
	if r.From != "" {
		fmt.Printf("From:       %s\n", r.From)
	}
	if r.LongInput {
		fmt.Printf("Note:       long input (%d characters)\n", r.Characters)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tSEVERITY\tINDICATOR")
	for _, ind := range r.Indicators {
		fmt.Fprintf(w, "%s\t%s\t%s\n", ind.Type, ind.Severity, ind.Message)
	}
	return w.Flush()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ── rules ────────────────────────────────────────────────────────────────────

var rulesFormat string

var rulesCmd = &cobra.Command{
	Use:   "rules [query]",
	Short: "List detection rules, optionally fuzzy-filtered by query",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var query string
		if len(args) == 1 {
			query = args[0]
		}

		var rules []client.Rule
		if serverURL != "" {
			c, err := newClient()
			if err != nil {
				return err
			}
			if rules, err = c.Rules(context.Background(), query); err != nil {
				return err
			}
		} else {
			for _, r := range analysis.FindRules(query) {
				rules = append(rules, client.Rule{
					ID:       r.ID,
					Kind:     string(r.Kind),
					Type:     string(r.Polarity),
					Severity: string(r.Severity),
					Message:  r.Message,
					Delta:    r.Delta,
					Pattern:  r.Pattern,
				})
			}
		}

		if rulesFormat == "json" {
			return printJSON(rules)
		}
		if len(rules) == 0 {
			fmt.Println("No rules match.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tKIND\tTYPE\tSEVERITY\tDELTA\tMESSAGE")
		for _, r := range rules {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%+d\t%s\n", r.ID, r.Kind, r.Type, r.Severity, r.Delta, r.Message)
		}
		return w.Flush()
	},
}

func init() {
	rulesCmd.Flags().StringVar(&rulesFormat, "format", "text", "Output format: text or json")
}

// ── samples ──────────────────────────────────────────────────────────────────

var samplesCmd = &cobra.Command{
	Use:   "samples [kind]",
	Short: "List built-in sample emails, or print one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if serverURL != "" {
			c, err := newClient()
			if err != nil {
				return err
			}
			ctx := context.Background()
			if len(args) == 0 {
				kinds, err := c.SampleKinds(ctx)
				if err != nil {
					return err
				}
				for _, k := range kinds {
					fmt.Println(k)
				}
				return nil
			}
			text, err := c.Sample(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		}

		if len(args) == 0 {
			for _, k := range samples.Kinds() {
				fmt.Println(k)
			}
			return nil
		}
		text, ok := samples.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown sample %q (want one of %s)", args[0], strings.Join(samples.Kinds(), ", "))
		}
		fmt.Println(text)
		return nil
	},
}

// ── version ──────────────────────────────────────────────────────────────────

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the phishguard CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("phishguard %s\n", version)
	},
}
