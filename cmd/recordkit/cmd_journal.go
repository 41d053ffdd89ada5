package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/recordkit/pkg/recordkit/listener/journal"
)

func newJournalCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect a recording journal",
	}
	cmd.AddCommand(newJournalListCmd(stdout, stderr))
	return cmd
}

type journalListOptions struct {
	path    string
	event   string
	kind    string
	since   time.Duration
	limit   int
	asJSON  bool
	countOf bool
}

func newJournalListCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts journalListOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List journaled recordings, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if doJournalList(opts, time.Now(), stdout, stderr) != 0 {
				return errExit
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.path, "path", "", "sqlite journal file (required)")
	cmd.Flags().StringVar(&opts.event, "event", "", "only entries of this event")
	cmd.Flags().StringVar(&opts.kind, "kind", "", `only "interval" or "instant" entries`)
	cmd.Flags().DurationVar(&opts.since, "since", 0, "only entries newer than this")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "maximum number of entries (0 = all)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print one JSON object per entry")
	cmd.Flags().BoolVar(&opts.countOf, "count", false, "print only the number of matching entries")
	return cmd
}

// doJournalList prints the entries of the journal at opts.path.
// Returns the exit code.
func doJournalList(opts journalListOptions, now time.Time, stdout, stderr io.Writer) int {
	if opts.path == "" {
		fmt.Fprintln(stderr, "recordkit journal list: --path is required") //nolint:errcheck // best-effort stderr
		return 1
	}
	kind := journal.Kind(opts.kind)
	if kind != "" && kind != journal.KindInterval && kind != journal.KindInstant {
		fmt.Fprintf(stderr, "recordkit journal list: invalid --kind %q\n", opts.kind) //nolint:errcheck // best-effort stderr
		return 1
	}

	store, err := journal.NewSQLiteStore(opts.path)
	if err != nil {
		fmt.Fprintf(stderr, "recordkit journal list: %v\n", err) //nolint:errcheck // best-effort stderr
		return 1
	}
	defer store.Close() //nolint:errcheck // read-only use

	q := journal.Query{Event: opts.event, Kind: kind, Limit: opts.limit}
	if opts.since > 0 {
		q.Since = now.Add(-opts.since)
	}

	if opts.countOf {
		n, err := store.Count(q)
		if err != nil {
			fmt.Fprintf(stderr, "recordkit journal list: %v\n", err) //nolint:errcheck // best-effort stderr
			return 1
		}
		fmt.Fprintln(stdout, n) //nolint:errcheck // best-effort stdout
		return 0
	}

	entries, err := store.List(q)
	if err != nil {
		fmt.Fprintf(stderr, "recordkit journal list: %v\n", err) //nolint:errcheck // best-effort stderr
		return 1
	}

	if opts.asJSON {
		enc := json.NewEncoder(stdout)
		for _, e := range entries {
			if err := enc.Encode(e); err != nil {
				fmt.Fprintf(stderr, "recordkit journal list: %v\n", err) //nolint:errcheck // best-effort stderr
				return 1
			}
		}
		return 0
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tKIND\tEVENT\tNAME\tTIME\tDURATION\tERROR") //nolint:errcheck // best-effort stdout
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n", //nolint:errcheck // best-effort stdout
			e.Seq, e.Kind, e.Event, e.Name, e.Time.Format(time.RFC3339Nano), e.Duration, e.Error)
	}
	tw.Flush() //nolint:errcheck // best-effort stdout
	return 0
}
