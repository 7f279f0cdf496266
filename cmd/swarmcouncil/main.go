// Command swarmcouncil answers a question by running it through a council of
// worker personas, a judge panel, and a finalizer, then prints the
// synthesized answer as Markdown.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	yaml "go.yaml.in/yaml/v2"

	"github.com/openquorum/swarmcouncil/council"
	"github.com/openquorum/swarmcouncil/emit"
	"github.com/openquorum/swarmcouncil/providers"
	"github.com/openquorum/swarmcouncil/roster"
	"github.com/openquorum/swarmcouncil/store"
	"github.com/openquorum/swarmcouncil/websearch"
)

// Args represents parsed command-line arguments.
type Args struct {
	// Question is the required question for the council.
	Question string
	// ConfigFile is the path to the configuration YAML file.
	ConfigFile string
	// Workers overrides the configured worker count when positive.
	Workers int
	// Mode overrides the configured mode when set.
	Mode string
	// Discussion enables the peer-revision round.
	Discussion bool
	// Web enables the pre-flight web search.
	Web bool
	// MetricsAddr, when set, serves Prometheus metrics on this address.
	MetricsAddr string
	// Err is any error encountered during parsing.
	Err error
}

// Config represents the structure of the configuration YAML file.
type Config struct {
	Workers       int    `yaml:"workers"`
	Mode          string `yaml:"mode"`
	Discussion    bool   `yaml:"discussion"`
	WebContext    bool   `yaml:"web_context"`
	BudgetCeiling string `yaml:"budget_ceiling"`
	RosterFile    string `yaml:"roster_file"`
	Events        string `yaml:"events"`

	Providers struct {
		OpenAIAPIKey    string `yaml:"openai_api_key"`
		AnthropicAPIKey string `yaml:"anthropic_api_key"`
		GoogleAPIKey    string `yaml:"google_api_key"`
	} `yaml:"providers"`

	Search struct {
		Endpoint string `yaml:"endpoint"`
		APIKey   string `yaml:"api_key"`
	} `yaml:"search"`

	Archive struct {
		Driver string `yaml:"driver"` // memory, sqlite, mysql
		DSN    string `yaml:"dsn"`
	} `yaml:"archive"`
}

func defaultConfig() *Config {
	config := &Config{
		Workers: 4,
		Mode:    string(council.ModeFast),
		Events:  "text",
	}
	config.Archive.Driver = "memory"
	return config
}

// parseArgs parses command-line arguments. Flags can appear before or after
// the positional question. If parsing fails, Err is set.
func parseArgs(osArgs []string) Args {
	var question string
	var flagArgs []string

	boolFlags := map[string]bool{"discussion": true, "web": true}

	for i := 0; i < len(osArgs); i++ {
		arg := osArgs[i]

		if len(arg) > 0 && arg[0] == '-' && arg != "-" {
			flagArgs = append(flagArgs, arg)

			flagName := arg
			if len(arg) > 2 && arg[:2] == "--" {
				flagName = arg[2:]
			} else if len(arg) > 1 {
				flagName = arg[1:]
			}

			if !boolFlags[flagName] && i+1 < len(osArgs) {
				i++
				flagArgs = append(flagArgs, osArgs[i])
			}
		} else {
			if question == "" {
				question = arg
				flagArgs = append(flagArgs, osArgs[i+1:]...)
				break
			}
		}
	}

	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.Usage = func() {}

	configFile := fs.String("config", "config.yaml", "path to config YAML file")
	workers := fs.Int("workers", 0, "number of worker personas (overrides config)")
	mode := fs.String("mode", "", "fast or reasoning (overrides config)")
	discussion := fs.Bool("discussion", false, "enable the peer discussion round")
	web := fs.Bool("web", false, "enable the pre-flight web search")
	metricsAddr := fs.String("metrics-addr", "", "serve Prometheus metrics on this address")

	if err := fs.Parse(flagArgs); err != nil {
		return Args{Err: fmt.Errorf("flag parsing error: %w", err)}
	}

	if question == "" {
		return Args{Err: fmt.Errorf("required argument missing: question")}
	}

	return Args{
		Question:    question,
		ConfigFile:  *configFile,
		Workers:     *workers,
		Mode:        *mode,
		Discussion:  *discussion,
		Web:         *web,
		MetricsAddr: *metricsAddr,
	}
}

// loadConfig loads and parses a YAML configuration file on top of the
// defaults. A missing file at the default path is not an error.
func loadConfig(path string) (*Config, error) {
	config := defaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && path == "config.yaml" {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return config, nil
}

// apiKey resolves a key from config, falling back to the environment.
func apiKey(configured, envVar string) string {
	if configured != "" {
		return configured
	}
	return os.Getenv(envVar)
}

// buildCompleter wires the provider adapters that have keys available into
// a router. Returns a cleanup func for adapters that hold resources.
func buildCompleter(ctx context.Context, config *Config) (providers.Completer, func(), error) {
	var adapters []providers.Completer
	cleanup := func() {}

	if key := apiKey(config.Providers.OpenAIAPIKey, "OPENAI_API_KEY"); key != "" {
		adapter, err := providers.NewOpenAICompleter(key)
		if err != nil {
			return nil, cleanup, err
		}
		adapters = append(adapters, adapter)
	}
	if key := apiKey(config.Providers.AnthropicAPIKey, "ANTHROPIC_API_KEY"); key != "" {
		adapter, err := providers.NewAnthropicCompleter(key)
		if err != nil {
			return nil, cleanup, err
		}
		adapters = append(adapters, adapter)
	}
	if key := apiKey(config.Providers.GoogleAPIKey, "GOOGLE_API_KEY"); key != "" {
		adapter, err := providers.NewGoogleCompleter(ctx, key)
		if err != nil {
			return nil, cleanup, err
		}
		adapters = append(adapters, adapter)
		cleanup = func() { _ = adapter.Close() }
	}

	if len(adapters) == 0 {
		return nil, cleanup, fmt.Errorf("no provider API keys configured (set OPENAI_API_KEY, ANTHROPIC_API_KEY, or GOOGLE_API_KEY)")
	}
	return providers.NewRouter(adapters...), cleanup, nil
}

// buildArchive constructs the turn archive backend named by the config.
func buildArchive(config *Config) (store.Archive, error) {
	switch config.Archive.Driver {
	case "", "memory":
		return store.NewMemoryArchive(), nil
	case "sqlite":
		dsn := config.Archive.DSN
		if dsn == "" {
			dsn = "council.db"
		}
		return store.NewSQLiteArchive(dsn)
	case "mysql":
		if config.Archive.DSN == "" {
			return nil, fmt.Errorf("mysql archive requires a DSN")
		}
		return store.NewMySQLArchive(config.Archive.DSN)
	default:
		return nil, fmt.Errorf("unknown archive driver %q", config.Archive.Driver)
	}
}

// buildEmitter picks the event sink named by the config.
func buildEmitter(events string) (emit.Emitter, error) {
	switch events {
	case "", "text":
		return emit.NewLogEmitter(os.Stderr, false), nil
	case "json":
		return emit.NewLogEmitter(os.Stderr, true), nil
	case "none":
		return emit.NewNullEmitter(), nil
	default:
		return nil, fmt.Errorf("unknown events mode %q", events)
	}
}

func buildRoster(config *Config) (*roster.Roster, error) {
	if config.RosterFile != "" {
		return roster.Load(config.RosterFile)
	}
	return roster.Default(), nil
}

func parseMode(s string) (council.Mode, error) {
	switch s {
	case "", string(council.ModeFast):
		return council.ModeFast, nil
	case string(council.ModeReasoning):
		return council.ModeReasoning, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want fast or reasoning)", s)
	}
}

func main() {
	args := parseArgs(os.Args[1:])
	if args.Err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", args.Err)
		os.Exit(1)
	}

	config, err := loadConfig(args.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Flags override the config file.
	if args.Workers > 0 {
		config.Workers = args.Workers
	}
	if args.Mode != "" {
		config.Mode = args.Mode
	}
	if args.Discussion {
		config.Discussion = true
	}
	if args.Web {
		config.WebContext = true
	}

	mode, err := parseMode(config.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	completer, cleanup, err := buildCompleter(ctx, config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	councilRoster, err := buildRoster(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	emitter, err := buildEmitter(config.Events)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	archive, err := buildArchive(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer archive.Close()

	opts := []council.Option{council.WithEmitter(emitter)}

	if config.Search.Endpoint != "" {
		searcher, err := websearch.NewHTTPSearcher(config.Search.Endpoint, config.Search.APIKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, council.WithSearcher(searcher))
	}

	if config.BudgetCeiling != "" {
		ceiling, err := time.ParseDuration(config.BudgetCeiling)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid budget_ceiling: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, council.WithBudgetCeiling(ceiling))
	}

	if args.MetricsAddr != "" {
		registry := prometheus.NewRegistry()
		opts = append(opts, council.WithMetrics(council.NewMetrics(registry)))
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
			if err := http.ListenAndServe(args.MetricsAddr, mux); err != nil {
				fmt.Fprintf(os.Stderr, "metrics server error: %v\n", err)
			}
		}()
	}

	orch := council.NewOrchestrator(completer, councilRoster, opts...)

	result, err := orch.RunTurn(ctx, council.TurnRequest{
		Question:          args.Question,
		WorkerCount:       config.Workers,
		Mode:              mode,
		DiscussionEnabled: config.Discussion,
		WebContextEnabled: config.WebContext,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	printResult(result)

	if err := saveResult(ctx, archive, args.Question, result); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to archive turn: %v\n", err)
	}
}

// printResult renders the turn outcome as Markdown on stdout.
func printResult(result *council.TurnResult) {
	fmt.Printf("# %s\n\n", result.Title)
	fmt.Printf("%s\n\n", result.FinalAnswer)
	fmt.Printf("---\n\n")
	fmt.Printf("*Rationale: %s*\n\n", result.FinalReasoning)

	var winnerName string
	for _, c := range result.Candidates {
		if c.ID == result.Voting.WinnerID {
			winnerName = c.WorkerName
		}
	}
	fmt.Printf("Winner: %s | Candidates: %d | Ballots: %d | Tokens: %d in / %d out ($%.4f) | Elapsed: %s\n",
		winnerName, len(result.Candidates), len(result.Votes),
		result.Usage.InputTokens, result.Usage.OutputTokens, result.Usage.CostUSD,
		result.Elapsed.Round(time.Millisecond))
}

// saveResult archives the full turn for later listing and replay.
func saveResult(ctx context.Context, archive store.Archive, question string, result *council.TurnResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize turn result: %w", err)
	}
	return archive.Save(ctx, store.TurnRecord{
		ID:          result.TurnID,
		Question:    question,
		Title:       result.Title,
		FinalAnswer: result.FinalAnswer,
		ResultJSON:  string(resultJSON),
		CreatedAt:   time.Now().UTC(),
	})
}
