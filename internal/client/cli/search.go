package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	client "github.com/mmvit/garudar/internal/client/api"
	"github.com/mmvit/garudar/pkg/api"
)

// searchOptions - флаги команды search
type searchOptions struct {
	entity    bool
	allFields bool
}

func (c *Cli) runSearch(ctx context.Context, args []string, opts searchOptions) error {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		return fmt.Errorf("search query cannot be empty")
	}

	session, err := c.session(ctx)
	if err != nil {
		return err
	}

	q := client.SearchQuery{
		Query:     query,
		EntryType: api.EntryTypeParamIndividual,
		AllFields: opts.allFields,
	}
	if opts.entity {
		q.EntryType = api.EntryTypeParamEntity
	}

	entries, err := c.api.Search(ctx, session.Token, q)
	if err != nil {
		return c.apiError(ctx, "search failed", err)
	}

	if len(entries) == 0 {
		c.io.Printf("No entries found for %q.\n", query)
		return nil
	}

	c.io.Printf("Found %d entries for %q:\n\n", len(entries), query)
	w := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tFULL NAME\tTYPE\tLIST\tDOB\tNATIONALITY")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.FullName, e.EntryType, e.SourceList, dash(e.DOB), dash(e.Nationality))
	}
	return w.Flush()
}

// dash подставляет прочерк вместо пустого значения в таблице
func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
