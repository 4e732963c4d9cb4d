package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pstuifzand/listview/internal/config"
	"github.com/pstuifzand/listview/internal/export"
	"github.com/pstuifzand/listview/internal/logging"
	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/projection"
	"github.com/pstuifzand/listview/internal/search"
)

// InspectOptions are the flags of the inspect command
type InspectOptions struct {
	Filter      string
	Sort        string
	Collapsed   bool
	Breadcrumbs bool
	Select      []string
	Group       string
	Format      string
	Dump        bool
}

func addInspect(topLevel *cobra.Command, ro *RootOptions) {
	o := &InspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "print the projected rows of a list file",
		Example: `
listview inspect todo.json
listview inspect todo.json --filter '#home' --sort -modified
listview inspect todo.json --select a,b --dump
listview inspect notes.md --group tags --format markdown
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.Config()
			if err != nil {
				return err
			}
			level, _ := logging.ParseLevel(cfg.Log.Level)
			log := logging.NewText(cmd.ErrOrStderr(), level)
			return inspect(cmd.OutOrStdout(), args[0], o, cfg, log)
		},
	}
	cmd.Flags().StringVar(&o.Filter, "filter", "", "Filter query, e.g. '#tag is:leaf ~text'.")
	cmd.Flags().StringVar(&o.Sort, "sort", "", "Comma separated sort fields, '-' prefix for descending.")
	cmd.Flags().BoolVar(&o.Collapsed, "collapsed", false, "Start with all nodes collapsed.")
	cmd.Flags().BoolVar(&o.Breadcrumbs, "breadcrumbs", false, "Show the ancestors of filtered rows.")
	cmd.Flags().StringSliceVar(&o.Select, "select", nil, "Keys to select before printing.")
	cmd.Flags().StringVar(&o.Group, "group", "", "Group rows by the value of this field.")
	cmd.Flags().StringVar(&o.Format, "format", "text", "Output format: text or markdown.")
	cmd.Flags().BoolVar(&o.Dump, "dump", false, "Dump the internal maps after the rows.")

	topLevel.AddCommand(cmd)
}

func inspect(w io.Writer, path string, o *InspectOptions, cfg *config.Config, log *logging.Logger) error {
	if o.Format != "text" && o.Format != "markdown" {
		return fmt.Errorf("unknown format %q", o.Format)
	}
	list, title, p, err := openList(path, !o.Collapsed, log)
	if err != nil {
		return err
	}
	defer p.Close()

	if o.Sort != "" {
		comparators, err := search.ParseSort(o.Sort)
		if err != nil {
			return err
		}
		p.SetSort(comparators...)
	}
	if o.Filter != "" {
		pred, err := search.CompilePredicate(o.Filter)
		if err != nil {
			return err
		}
		if err := p.SetFilter(pred); err != nil {
			return err
		}
	}
	if o.Group != "" {
		field := o.Group
		p.SetGroup(func(it *model.Item) string {
			v, _ := it.Field(field)
			return v
		})
	}
	if o.Breadcrumbs {
		if err := p.SetBreadcrumbs(true); err != nil {
			return err
		}
	}

	sel, err := newSelection(p, cfg, log)
	if err != nil {
		return err
	}
	defer sel.Close()
	for _, k := range o.Select {
		sel.Select(model.Key(k))
	}

	if o.Format == "markdown" {
		return export.Markdown(w, displayTitle(title, path), p.Items(), len(o.Select) > 0)
	}

	fmt.Fprintln(w, displayTitle(title, path))
	for _, item := range p.Items() {
		fmt.Fprintln(w, rowLine(item, p.IsHierarchical(), len(o.Select) > 0))
	}

	nodes := 0
	for _, it := range list.Items() {
		if it.Node {
			nodes++
		}
	}
	fmt.Fprintf(w, "%d rows, %d items, %d nodes\n", p.Count(), list.Count(), nodes)
	if len(o.Select) > 0 {
		if n, ok := sel.Count(); ok {
			fmt.Fprintf(w, "%d selected\n", n)
		} else {
			fmt.Fprintln(w, "? selected")
		}
	}

	if o.Dump {
		p.Dump(w)
	}
	return nil
}

func rowLine(item *projection.Item, tree, checks bool) string {
	var b strings.Builder
	switch item.Kind() {
	case projection.KindSeparator:
		return "--"
	case projection.KindBreadcrumbs:
		parts := make([]string, 0, len(item.Path()))
		for _, it := range item.Path() {
			parts = append(parts, it.Text())
		}
		return "» " + strings.Join(parts, " / ")
	case projection.KindGroup:
		return "# " + item.Group()
	}

	b.WriteString(strings.Repeat("  ", item.Level()))
	if tree {
		switch {
		case !item.IsNode():
			b.WriteString("  ")
		case item.IsExpanded():
			b.WriteString("▾ ")
		default:
			b.WriteString("▸ ")
		}
	}
	if checks {
		switch item.CheckState() {
		case projection.Checked:
			b.WriteString("[x] ")
		case projection.Partial:
			b.WriteString("[-] ")
		default:
			b.WriteString("[ ] ")
		}
	}
	b.WriteString(item.Text())
	return b.String()
}
