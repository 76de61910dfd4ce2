// Command loadcoach analyzes workday snapshots from a file or stdin and
// prints the report as JSON.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DSafr2506/agent-for-chat-MAX/internal"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/app"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/config"
	"github.com/DSafr2506/agent-for-chat-MAX/internal/storage"
)

type options struct {
	input   string
	out     string
	now     time.Time
	offline bool
	text    string
	tz      string
	user    string
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "loadcoach:", err)
		var verr *internal.ValidationError
		if errors.As(err, &verr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("loadcoach", flag.ContinueOnError)
	out := fs.String("out", "", "Write the JSON report to this path instead of stdout")
	now := fs.String("now", "", "Current time as RFC 3339, for reproducible plans")
	offline := fs.Bool("offline", false, "Skip remote text generation and use rule-based narrative")
	text := fs.String("text", "", "Analyze free text as the day's inbox instead of a snapshot")
	tz := fs.String("tz", "", "IANA time zone for -text")
	user := fs.String("user", "", "User id for -text")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	opts := options{out: *out, offline: *offline, text: *text, tz: *tz, user: *user}
	if *now != "" {
		t, err := time.Parse(time.RFC3339, *now)
		if err != nil {
			return options{}, fmt.Errorf("invalid -now: %w", err)
		}
		opts.now = t
	}
	switch fs.NArg() {
	case 0:
	case 1:
		opts.input = fs.Arg(0)
	default:
		return options{}, errors.New("expected at most one input file")
	}
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	a, err := app.New(cfg, app.Options{Offline: opts.offline, NoMetrics: true})
	if err != nil {
		return err
	}
	defer a.Close()

	analyzer := a.Analyzer()
	if !opts.now.IsZero() {
		now := opts.now
		analyzer.Clock = func() time.Time { return now }
	}

	var result any
	if opts.text != "" {
		result, err = analyzer.AnalyzeText(ctx, opts.text, opts.user, opts.tz)
		if err != nil {
			return err
		}
	} else {
		var payload *storage.Payload
		if opts.input == "" || opts.input == "-" {
			payload, err = storage.DecodePayload(stdin)
		} else {
			payload, err = storage.LoadPayload(opts.input)
		}
		if err != nil {
			return err
		}
		switch {
		case payload.Batch:
			result = analyzer.AnalyzeBatch(ctx, payload.Items)
		default:
			result, err = analyzer.Analyze(ctx, payload.Items[0])
			if err != nil {
				return err
			}
		}
	}

	if opts.out != "" {
		if err := storage.WriteJSONAtomic(opts.out, result); err != nil {
			return fmt.Errorf("write %s: %w", opts.out, err)
		}
		a.Logger().Infof("report written to %s", opts.out)
		return nil
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
