package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/zen-systems/ledgerloop/pkg/adapter"
	"github.com/zen-systems/ledgerloop/pkg/config"
	"github.com/zen-systems/ledgerloop/pkg/pipeline"
	"github.com/zen-systems/ledgerloop/pkg/source"
	"github.com/zen-systems/ledgerloop/pkg/statement"
)

var (
	adapterFlag string
	modelFlag   string
	mockFlag    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ledgerloop",
		Short: "Bank statement extraction with verification and bounded retries",
		Long: `Ledgerloop extracts transactions from bank statements with an LLM,
	verifies the extraction against the statement text with a second LLM
	judgment, and retries failed extractions with the verifier's feedback
	up to a configurable attempt budget.`,
	}

	rootCmd.PersistentFlags().StringVar(&adapterFlag, "adapter", "", "adapter to use (anthropic, openai, google, deepseek)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "model to use")
	rootCmd.PersistentFlags().BoolVar(&mockFlag, "mock", false, "use the mock adapter (no API calls)")

	rootCmd.AddCommand(processCmd())
	rootCmd.AddCommand(checkCmd())
	rootCmd.AddCommand(modelsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func processCmd() *cobra.Command {
	var maxAttempts int
	var evidenceDir string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "process [statement]",
		Short: "Extract and verify transactions from a bank statement",
		Long: `Runs the extraction/verification pipeline against a statement file
	(PDF or plain text). On verification failure the extraction is retried
	with the verifier's feedback until it passes or the attempt budget is
	exhausted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputRef := args[0]

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			target, model, err := selectAdapter(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Using %s/%s\n", target.Name(), model)

			if maxAttempts < 1 {
				maxAttempts = cfg.Defaults.MaxAttempts
			}
			if evidenceDir == "" {
				evidenceDir = cfg.Defaults.EvidenceDir
			}

			opts := pipeline.RunOptions{EvidenceDir: evidenceDir}
			if !quiet {
				opts.Logger = func(format string, logArgs ...any) {
					fmt.Fprintf(os.Stderr, format+"\n", logArgs...)
				}
			}

			runner := pipeline.NewRunner(
				pipeline.NewProducerStage(target, model),
				pipeline.NewVerifierStage(target, model),
				source.NewFileReader(),
				opts,
			)

			result, err := runner.Process(cmd.Context(), inputRef, maxAttempts)
			if err != nil {
				return err
			}

			printResult(result)
			if result.Status != pipeline.RunSuccess {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxAttempts, "max-attempts", 0, "attempt budget, inclusive of the first attempt")
	cmd.Flags().StringVar(&evidenceDir, "evidence", "", "directory for run evidence bundles")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "suppress progress output")

	return cmd
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [transactions.json]",
		Short: "Quick format check of already-extracted transactions",
		Long: `Validates the shape of an extracted transaction file without
	comparing against the original statement: JSON validity, required
	fields, date format, numeric amounts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read candidate: %w", err)
			}

			result := pipeline.QuickCheck(string(data))

			fmt.Printf("Status: %s\n", result.Status)
			fmt.Printf("Verdict: %s\n", result.VerdictText)
			if result.Status != pipeline.RunSuccess {
				os.Exit(1)
			}
			return nil
		},
	}

	return cmd
}

func modelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available adapters and models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			adapters, err := createAdapters(cfg)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tMODELS\tSTATUS")
			for _, name := range []string{"anthropic", "deepseek", "google", "openai", "mock"} {
				status := "no API key"
				models := "-"
				if a, ok := adapters[name]; ok {
					status = "configured"
					models = ""
					for i, m := range a.Models() {
						if i > 0 {
							models += ", "
						}
						models += m
					}
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, models, status)
			}
			return w.Flush()
		},
	}

	return cmd
}

func selectAdapter(cfg *config.Config) (adapter.Adapter, string, error) {
	adapters, err := createAdapters(cfg)
	if err != nil {
		return nil, "", err
	}

	name := adapterFlag
	if name == "" {
		name = cfg.Defaults.Adapter
	}
	if mockFlag {
		name = "mock"
	}
	if name == "" {
		// Deterministic preference order when nothing is configured.
		for _, candidate := range []string{"anthropic", "openai", "google", "deepseek"} {
			if _, ok := adapters[candidate]; ok {
				name = candidate
				break
			}
		}
	}
	if name == "" {
		return nil, "", fmt.Errorf("no adapter available; set an API key or pass --mock")
	}

	target, ok := adapters[name]
	if !ok {
		return nil, "", fmt.Errorf("adapter %q not available", name)
	}

	model := modelFlag
	if model == "" {
		model = cfg.Defaults.Model
	}
	if model == "" {
		models := target.Models()
		if len(models) > 0 {
			model = models[0]
		}
	}
	if model == "" {
		return nil, "", fmt.Errorf("no model available for adapter %q", name)
	}

	return target, model, nil
}

func createAdapters(cfg *config.Config) (map[string]adapter.Adapter, error) {
	adapters := make(map[string]adapter.Adapter)

	if cfg.AnthropicAPIKey != "" {
		a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create anthropic adapter: %w", err)
		}
		adapters["anthropic"] = a
	}

	if cfg.OpenAIAPIKey != "" {
		a, err := adapter.NewOpenAIAdapter(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai adapter: %w", err)
		}
		adapters["openai"] = a
	}

	if cfg.GoogleAPIKey != "" {
		a, err := adapter.NewGoogleAdapter(cfg.GoogleAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create google adapter: %w", err)
		}
		adapters["google"] = a
	}

	if cfg.DeepSeekAPIKey != "" {
		a, err := adapter.NewDeepSeekAdapter(cfg.DeepSeekAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create deepseek adapter: %w", err)
		}
		adapters["deepseek"] = a
	}

	adapters["mock"] = adapter.NewMockAdapter()

	return adapters, nil
}

func printResult(result *pipeline.RunResult) {
	fmt.Printf("Status: %s\n", result.Status)
	fmt.Printf("Attempts: %d\n", result.AttemptsUsed)

	switch result.Status {
	case pipeline.RunSuccess:
		transactions, err := statement.ParseTransactions(result.Artifact)
		if err != nil {
			fmt.Printf("Verdict: %s\n", result.VerdictText)
			fmt.Println("Could not parse extracted transactions for display")
			return
		}
		fmt.Printf("Extracted %d transactions:\n", len(transactions))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DATE\tMEMO\tAMOUNT")
		for _, txn := range transactions {
			fmt.Fprintf(w, "%s\t%s\t%.2f\n", txn.Date, txn.Memo, txn.Amount)
		}
		w.Flush()
	default:
		fmt.Printf("Verdict: %s\n", result.VerdictText)
	}
}
