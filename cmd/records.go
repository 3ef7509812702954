package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/byxorna/shipwright/pkg/app"
	"github.com/byxorna/shipwright/pkg/entity"
	"github.com/byxorna/shipwright/pkg/remote"
	"github.com/byxorna/shipwright/pkg/site"
	"github.com/dustin/go-humanize/english"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// labels longer than this are cut in tables
const maxLabelWidth = 40

var (
	listFlags = struct {
		Query    string
		Filter   string
		Sort     string
		Page     int
		PageSize int
	}{}

	getFlags = struct {
		Render bool
		Width  int
	}{}

	deleteFlags = struct {
		Yes bool
	}{}

	listCmd = &cobra.Command{
		Use:       "list <section>",
		Short:     "List one page of a section",
		Example:   "  shipwright list products --filter sailboats --sort name",
		Args:      cobra.ExactArgs(1),
		ValidArgs: entity.Names,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, h, err := handle(args[0])
			if err != nil {
				return err
			}
			size := listFlags.PageSize
			if size <= 0 {
				size = cfg.PageSize
			}
			l, err := h.List(cmd.Context(), remote.Query{
				Search:   strings.TrimSpace(listFlags.Query),
				Filter:   listFlags.Filter,
				Sort:     listFlags.Sort,
				Page:     listFlags.Page,
				PageSize: size,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printRows(out, l.Rows)
			fmt.Fprintf(out, "\npage %d of %d · %s\n", l.Query.Page, max(1, l.Pages), english.Plural(l.Total, "record", ""))
			return nil
		},
	}

	getCmd = &cobra.Command{
		Use:       "get <section> <id|slug>",
		Short:     "Print one record",
		Args:      cobra.ExactArgs(2),
		ValidArgs: entity.Names,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, h, err := handle(args[0])
			if err != nil {
				return err
			}
			r, err := h.Get(cmd.Context(), args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if getFlags.Render && r.Markdown != "" {
				s, err := site.Render(r.Markdown, getFlags.Width)
				if err != nil {
					return err
				}
				fmt.Fprint(out, s)
				return nil
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(r.Record)
		},
	}

	deleteCmd = &cobra.Command{
		Use:       "delete <section> <id|slug>",
		Short:     "Delete one record",
		Args:      cobra.ExactArgs(2),
		ValidArgs: entity.Names,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, h, err := handle(args[0])
			if err != nil {
				return err
			}
			r, err := h.Get(cmd.Context(), args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !deleteFlags.Yes {
				ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Delete %s “%s”?", r.ID, r.Label))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Nothing deleted.")
					return nil
				}
			}
			if err := h.Remove(cmd.Context(), r.ID); err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted “%s”.\n", r.Label)
			return nil
		},
	}
)

func init() {
	listCmd.Flags().StringVarP(&listFlags.Query, "q", "q", "", "search text")
	listCmd.Flags().StringVarP(&listFlags.Filter, "filter", "f", "", "value for the section's filter field")
	listCmd.Flags().StringVarP(&listFlags.Sort, "sort", "s", "", "sort key, prefix with - for descending")
	listCmd.Flags().IntVarP(&listFlags.Page, "page", "p", 1, "page to show")
	listCmd.Flags().IntVar(&listFlags.PageSize, "page-size", 0, "rows per page (default from config)")

	getCmd.Flags().BoolVar(&getFlags.Render, "render", false, "render long form text instead of printing fields")
	getCmd.Flags().IntVar(&getFlags.Width, "width", 80, "wrap rendered text at this width")

	deleteCmd.Flags().BoolVarP(&deleteFlags.Yes, "yes", "y", false, "skip the confirmation prompt")

	root.AddCommand(listCmd, getCmd, deleteCmd)
}

func printRows(w io.Writer, rows []app.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No records.")
		return
	}
	idWidth, labelWidth := 0, 0
	for _, r := range rows {
		idWidth = max(idWidth, runewidth.StringWidth(r.ID))
		labelWidth = max(labelWidth, min(maxLabelWidth, runewidth.StringWidth(r.Label)))
	}
	for _, r := range rows {
		label := runewidth.Truncate(r.Label, labelWidth, "…")
		fmt.Fprintf(w, "%s  %s  %-10s  %s\n",
			runewidth.FillRight(r.ID, idWidth),
			runewidth.FillRight(label, labelWidth),
			r.Status,
			r.Caption,
		)
	}
}

// confirm asks question and reports whether the answer was yes. Anything
// else, including no answer, is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
