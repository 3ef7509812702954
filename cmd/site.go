package cmd

import (
	"fmt"
	"io"

	"github.com/byxorna/shipwright/pkg/app"
	"github.com/byxorna/shipwright/pkg/site"
	v1 "github.com/byxorna/shipwright/pkg/types/v1"
	"github.com/spf13/cobra"
)

var (
	siteFlags = struct {
		Category string
		Width    int
	}{}

	siteCmd = &cobra.Command{
		Use:   "site",
		Short: "Read the website the way visitors see it",
		Long:  "Read the website the way visitors see it: published records only.",
	}

	siteProductsCmd = &cobra.Command{
		Use:   "products [slug]",
		Short: "List published products, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				p, err := c.Product(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return render(out, site.ProductMarkdown(p))
			}
			products, err := c.Products(cmd.Context(), siteFlags.Category)
			if err != nil {
				return err
			}
			printRows(out, rows(products))
			return nil
		},
	}

	sitePostsCmd = &cobra.Command{
		Use:   "posts [slug]",
		Short: "List published posts, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				p, err := c.Post(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return render(out, article(p.Title, p.Markdown()))
			}
			posts, err := c.Posts(cmd.Context())
			if err != nil {
				return err
			}
			printRows(out, rows(posts))
			return nil
		},
	}

	siteCasesCmd = &cobra.Command{
		Use:     "cases [slug]",
		Aliases: []string{"case-studies"},
		Short:   "List published case studies, or show one",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				cs, err := c.CaseStudy(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return render(out, article(cs.Title, cs.Markdown()))
			}
			cases, err := c.CaseStudies(cmd.Context())
			if err != nil {
				return err
			}
			printRows(out, rows(cases))
			return nil
		},
	}
)

func init() {
	siteCmd.PersistentFlags().IntVar(&siteFlags.Width, "width", 80, "wrap rendered pages at this width")
	siteProductsCmd.Flags().StringVar(&siteFlags.Category, "category", "", "only products of this category")
	siteCmd.AddCommand(siteProductsCmd, sitePostsCmd, siteCasesCmd)
	root.AddCommand(siteCmd)
}

func catalog() (*site.Catalog, error) {
	b, err := backend()
	if err != nil {
		return nil, err
	}
	return b.Catalog, nil
}

func article(title, body string) string {
	return "# " + title + "\n\n" + body
}

func render(w io.Writer, md string) error {
	s, err := site.Render(md, siteFlags.Width)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, s)
	return err
}

func rows[T v1.Item](items []T) []app.Row {
	out := make([]app.Row, len(items))
	for i, item := range items {
		out[i] = app.Row{ID: item.Identifier(), Label: item.Label(), Caption: item.Caption()}
		if s, ok := any(item).(v1.Stateful); ok {
			out[i].Status = s.State()
		}
	}
	return out
}
