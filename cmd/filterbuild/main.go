// Command filterbuild writes the prefix filter for a word list. The file it
// produces is what a run file's filter.path points at.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/specialistvlad/gridwords/internal/cli"
	"github.com/specialistvlad/gridwords/internal/ctxlog"
	"github.com/specialistvlad/gridwords/internal/dictionary"
	"github.com/specialistvlad/gridwords/internal/filter"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	if err := run(ctx, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitFailure)
	}
}

func run(ctx context.Context, errW io.Writer, args []string) error {
	flagSet := flag.NewFlagSet("filterbuild", flag.ContinueOnError)
	flagSet.SetOutput(errW)

	dictFlag := flagSet.String("dict", "", "Word list, one word per line.")
	outFlag := flagSet.String("out", "bloom.out", "Where to write the filter.")
	bitsFlag := flagSet.Uint("bits", filter.DefaultBits, "Size of the filter in bits.")
	hashesFlag := flagSet.Uint("hashes", filter.DefaultHashes, "Number of hash functions.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return &cli.ExitError{Code: cli.ExitUsage, Message: err.Error()}
	}
	if *dictFlag == "" {
		return &cli.ExitError{Code: cli.ExitUsage, Message: "-dict is required"}
	}
	if *bitsFlag == 0 || *hashesFlag == 0 {
		return &cli.ExitError{Code: cli.ExitUsage, Message: "-bits and -hashes must be positive"}
	}

	dict, err := dictionary.LoadFile(ctx, *dictFlag)
	if err != nil {
		return err
	}

	f := filter.Build(dict, *bitsFlag, *hashesFlag)
	if err := f.Save(*outFlag); err != nil {
		return err
	}

	ctxlog.FromContext(ctx).Info("Filter written.", "path", *outFlag, "words", dict.Len(), "skipped", dict.Skipped(), "bits", f.Bits(), "hashes", f.Hashes())
	return nil
}
