package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/bpmnav/internal/diagram"
	"github.com/ziadkadry99/bpmnav/internal/resolver"
)

var inspectResolve []string

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List the diagrams and their clickable sub-process shapes",
	Long: `Prints every diagram that would be exported with its index, filename and
the sub-process shapes found in it. With --resolve, shows which diagram a
shape identifier would open and which rule picked it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		store, err := loadStore(cfg)
		if err != nil {
			return err
		}

		meta := store.Metadata()
		if meta.ProjectName != "" {
			fmt.Printf("%s (%d diagrams)\n\n", meta.ProjectName, meta.TotalProcesses)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "INDEX\tTITLE\tFILENAME\tSHAPES")
		for _, e := range store.Entries() {
			shapes := "-"
			found, err := diagram.ScanShapes(e.Content)
			switch {
			case err != nil:
				shapes = "unreadable"
			case len(found) > 0:
				shapes = strings.Join(diagram.ShapeIDs(found), ", ")
			}
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Index, e.Title, e.Filename, shapes)
		}
		w.Flush()

		if len(inspectResolve) == 0 {
			return nil
		}
		fmt.Println()
		r := resolver.New(store)
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SHAPE\tINDEX\tRULE\tTITLE")
		for _, id := range inspectResolve {
			m := r.Explain(id)
			title := "-"
			if m.Found() {
				if e, err := store.Get(m.Index); err == nil {
					title = e.Title
				}
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", id, m.Index, m.Rule, title)
		}
		return w.Flush()
	},
}

func init() {
	inspectCmd.Flags().StringSliceVar(&inspectResolve, "resolve", nil, "shape identifiers to resolve")
	rootCmd.AddCommand(inspectCmd)
}
