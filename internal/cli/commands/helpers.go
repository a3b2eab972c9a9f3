package commands

import (
	"flag"
	"io"
	"time"
)

const dateLayout = "2006-01-02"

// newFlagSet — набор флагов команды; ошибки разбора превращаются в ErrUsage.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	return nil
}

// parseDay разбирает YYYY-MM-DD как полночь UTC.
func parseDay(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
