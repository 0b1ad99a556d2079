package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"syscall"

	"github.com/goccy/go-yaml"
	"github.com/gosuri/uitable"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	ultradns "github.com/jfk9w-go/libdns-ultradns"
)

const tracerName = "github.com/jfk9w-go/libdns-ultradns/cmd/ultradns"

var (
	flags struct {
		host      string
		useHTTP   bool
		insecure  bool
		proxy     string
		output    string
		logLevel  string
		logFormat string
		wait      bool
	}

	log    *zap.Logger
	client *ultradns.Client

	rootCmd = &cobra.Command{
		Use:           "ultradns",
		Short:         "Command line client for the UltraDNS REST API",
		Long:          `Credentials are read from ULTRADNS_USERNAME and ULTRADNS_PASSWORD or ULTRADNS_ACCESS_TOKEN and ULTRADNS_REFRESH_TOKEN. A .env file in the working directory is loaded if present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if log, err = newLogger(flags.logLevel, flags.logFormat); err != nil {
				return err
			}

			client, err = newClient(cmd)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = log.Sync()
		},
	}
)

func init() {
	_ = godotenv.Load()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.host, "host", "", "API host, overrides ULTRADNS_HOST")
	pf.BoolVar(&flags.useHTTP, "use-http", false, "use plaintext HTTP")
	pf.BoolVar(&flags.insecure, "insecure", false, "skip TLS certificate verification")
	pf.StringVar(&flags.proxy, "proxy", "", "proxy URL")
	pf.StringVarP(&flags.output, "output", "o", "yaml", "output format: yaml, json or table")
	pf.StringVar(&flags.logLevel, "log-level", "warn", "log level")
	pf.StringVar(&flags.logFormat, "log-format", "console", "log format: console or json")
	pf.BoolVar(&flags.wait, "wait", false, "wait for background tasks started by the command")

	rootCmd.AddCommand(statusCmd, versionCmd, accountsCmd, batchCmd, zonesCmd, rrsetsCmd, tasksCmd, reportsCmd)
}

func newLogger(level, format string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "parse log level")
	}

	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	return cfg.Build()
}

func newClient(cmd *cobra.Command) (*ultradns.Client, error) {
	creds, err := ultradns.CredentialsFromEnv()
	if err != nil {
		return nil, err
	}

	cfg, err := ultradns.ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	pf := cmd.Flags()
	if pf.Changed("host") {
		cfg.Host = flags.host
	}

	if pf.Changed("use-http") {
		cfg.UseHTTP = flags.useHTTP
	}

	if pf.Changed("insecure") {
		cfg.InsecureSkipVerify = flags.insecure
	}

	if pf.Changed("proxy") {
		cfg.Proxy = flags.proxy
	}

	cfg.Logger = log
	cfg.UserAgent = "ultradns-cli"

	return ultradns.NewClient(cmd.Context(), creds, cfg)
}

// run wraps a client call into a command body that prints its result.
func run(name string, call func(ctx context.Context, args []string) (*ultradns.Result, error)) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, span := otel.Tracer(tracerName).Start(cmd.Context(), "cmd."+name)
		defer span.End()

		result, err := call(ctx, args)
		if err != nil {
			span.RecordError(err)
			return err
		}

		if flags.wait && result.Async() {
			log.Info("ultradns.waiting", zap.String("task_id", result.TaskID), zap.String("location", result.Location))
			if result, err = client.Resolve(ctx, result); err != nil {
				span.RecordError(err)
				return err
			}
		}

		return writeResult(cmd.OutOrStdout(), result)
	}
}

func writeResult(w io.Writer, result *ultradns.Result) error {
	value, err := result.Value()
	if err != nil {
		return err
	}

	switch value := value.(type) {
	case string:
		_, err := fmt.Fprintln(w, value)
		return err
	case []byte:
		_, err := w.Write(value)
		return err
	}

	var data []byte
	switch flags.output {
	case "json":
		data, err = json.MarshalIndent(value, "", "  ")
		data = append(data, '\n')
	case "yaml":
		data, err = yaml.Marshal(value)
	case "table":
		data = []byte(table(value))
	default:
		return errors.Errorf("unsupported output format: %s", flags.output)
	}

	if err != nil {
		return errors.Wrap(err, "encode output")
	}

	_, err = w.Write(data)
	return err
}

// table renders top-level fields as rows. Nested values are printed as compact JSON.
func table(value any) string {
	t := uitable.New()
	t.MaxColWidth = 100
	t.Wrap = true

	switch value := value.(type) {
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(value)) {
			t.AddRow(key+":", cell(value[key]))
		}
	case []any:
		for i, item := range value {
			t.AddRow(strconv.Itoa(i)+":", cell(item))
		}
	default:
		t.AddRow(cell(value))
	}

	return t.String() + "\n"
}

func cell(value any) string {
	if s, ok := value.(string); ok {
		return s
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}

	return string(data)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
