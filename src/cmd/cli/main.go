package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"screen-answer-overlay/src/config"
	"screen-answer-overlay/src/llm"
	"screen-answer-overlay/src/logutil"
	"screen-answer-overlay/src/screenshot"
	"screen-answer-overlay/src/session"
)

const (
	maxFileSizeMB = 10
	maxFileSize   = maxFileSizeMB * 1024 * 1024
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a}

type cliOptions struct {
	filePath   string
	mode       string
	jsonOutput bool
	verbose    bool
	apiKeyPath string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"answer-tool"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "answer-tool",
		Short:         "Answer the quiz in a PNG screenshot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(cmd.Context(), *opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&opts.filePath, "file", "", "Path to PNG file (use '-' for stdin)")
	cmd.Flags().StringVar(&opts.mode, "mode", "direct", "Answer strategy: direct or transcribe")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.Flags().StringVar(&opts.apiKeyPath, "api-key-path", "", "Path to API key file (highest precedence)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runWithOptions(ctx context.Context, opts cliOptions, stdin io.Reader, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	strategy, err := session.ParseStrategy(opts.mode)
	if err != nil {
		return err
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	log, closer, err := logutil.New(logutil.Config{Level: level, Pretty: true, Output: stderr})
	if err != nil {
		return err
	}
	defer closer.Close()

	cfg, err := config.LoadWithOptions(config.LoadOptions{APIKeyPathOverride: opts.apiKeyPath})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Debug().Str("api_key_path", cfg.APIKeyPath).Str("api_key", logutil.RedactKey(cfg.APIKey)).Msg("config loaded")
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("checked key file %s and OPENROUTER_API_KEY: %w", cfg.APIKeyPath, err)
	}

	client, err := llm.New(llm.Config{
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.BaseURL,
		DirectModel:     cfg.DirectModel,
		TranscribeModel: cfg.TranscribeModel,
		AnswerModel:     cfg.AnswerModel,
	}, log)
	if err != nil {
		return err
	}

	imageData, err := readImage(opts.filePath, stdin)
	if err != nil {
		return err
	}
	log.Debug().Int("bytes", len(imageData)).Str("strategy", strategy.String()).Msg("image read")

	start := time.Now()
	answer, err := session.Answer(ctx, client, strategy, screenshot.PNGDataURL(imageData))
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("answer failed: %w", err)
	}
	log.Debug().Dur("took", elapsed).Int("chars", len(answer)).Msg("answer received")

	return outputResult(stdout, Result{
		Answer:    answer,
		Source:    opts.filePath,
		Strategy:  strategy.String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Duration:  elapsed.Seconds(),
	}, opts.jsonOutput)
}

func readImage(path string, stdin io.Reader) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(io.LimitReader(stdin, maxFileSize+1))
		if err != nil {
			return nil, fmt.Errorf("failed to read from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
	}
	if err := validatePNG(data); err != nil {
		return nil, err
	}
	return data, nil
}

var errNotPNG = errors.New("input is not a valid PNG file (invalid magic number)")

func validatePNG(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("input file is empty")
	}
	if len(data) > maxFileSize {
		return fmt.Errorf("input file exceeds maximum size of %d MB", maxFileSizeMB)
	}
	if len(data) < len(pngMagic) || !bytes.Equal(data[:len(pngMagic)], pngMagic) {
		return errNotPNG
	}
	return nil
}

type Result struct {
	Answer    string  `json:"answer"`
	Source    string  `json:"source"`
	Strategy  string  `json:"strategy"`
	Timestamp string  `json:"timestamp"`
	Duration  float64 `json:"duration_seconds"`
}

func outputResult(w io.Writer, res Result, jsonOutput bool) error {
	if !jsonOutput {
		_, err := fmt.Fprintln(w, res.Answer)
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(res); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

var legacyFlags = []string{"file", "mode", "json", "verbose", "api-key-path"}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range legacyFlags {
			switch {
			case arg == "-"+name:
				normalized[i] = "--" + name
			case strings.HasPrefix(arg, "-"+name+"="):
				normalized[i] = "-" + arg
			}
		}
	}

	return normalized
}
