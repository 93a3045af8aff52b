package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"
	"github.com/zulandar/pressyard/internal/gate"
	"github.com/zulandar/pressyard/internal/matrix"
	"github.com/zulandar/pressyard/internal/station"
)

func newRelationsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "relations <station> <element>",
		Short: "List the legal action/state pairs of an element at a station",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := station.Parse(args[0])
			if err != nil {
				return err
			}
			el, err := station.ParseElement(args[1])
			if err != nil {
				return err
			}
			_, gormDB, err := openStore(configPath)
			if err != nil {
				return err
			}
			rels, err := newResolver().Resolve(gormDB, st, el)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rels) == 0 {
				fmt.Fprintf(out, "No relations for %s at %s.\n", el, st)
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tACTION\tSTATE\tDEFAULT\tFINAL")
			for _, r := range rels {
				fmt.Fprintf(w, "%d\t%d\t%d\t%s\t%s\n", r.ID, r.ActionID, r.StateID, yesNo(r.IsDefault), yesNo(r.IsFinal))
			}
			return w.Flush()
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func newMatrixCmd() *cobra.Command {
	var (
		configPath string
		lang       string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "matrix <prod-order-id> <station> <element>",
		Short: "Show the action/state matrix of an element",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := station.Parse(args[1])
			if err != nil {
				return err
			}
			el, err := station.ParseElement(args[2])
			if err != nil {
				return err
			}
			cfg, gormDB, err := openStore(configPath)
			if err != nil {
				return err
			}
			l, err := parseLang(lang, cfg)
			if err != nil {
				return err
			}
			m, err := matrix.Build(gormDB, newResolver(), matrix.Query{ProdOrderID: id, Station: st, Element: el, Lang: l})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), m)
			}
			return printMatrix(cmd.OutOrStdout(), m)
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().StringVar(&lang, "lang", "", "language of names (en, bg, fr)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the matrix as JSON")
	return cmd
}

func printMatrix(out io.Writer, m *matrix.Matrix) error {
	fmt.Fprintf(out, "Production order %d, %s at %s\n", m.ProdOrderID, m.Element, m.Station)
	if len(m.Actions) == 0 {
		fmt.Fprintln(out, "No actions.")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACTION\tSTATE\tCURRENT\tFINAL")
	for _, a := range m.Actions {
		for _, id := range a.StateOrder {
			cell := a.States[id]
			current := ""
			if id == a.CurrentStateID {
				current = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Name, cell.Name, current, yesNo(cell.IsFinal))
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if m.CountBookmarkInserts > 0 {
		fmt.Fprintf(out, "Bookmark inserts: %d\n", m.CountBookmarkInserts)
	}
	return nil
}

func newClassifyCmd() *cobra.Command {
	var (
		configPath string
		override   bool
	)

	cmd := &cobra.Command{
		Use:   "classify <prod-order-id> <from> <to>",
		Short: "Split the elements of an order into stand-by and converted",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			from, err := station.Parse(args[1])
			if err != nil {
				return err
			}
			to, err := station.Parse(args[2])
			if err != nil {
				return err
			}
			cfg, gormDB, err := openStore(configPath)
			if err != nil {
				return err
			}
			q := gate.Query{ProdOrderID: id, From: from, To: to, Override: override}
			if actions, ok := cfg.AllowedActions(from, to); ok {
				q.Allowed = mapset.NewThreadUnsafeSet(actions...)
			}
			res, err := gate.Classify(gormDB, newResolver(), q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Stand-by:  %s\n", joinElements(res.StandByElements()))
			fmt.Fprintf(out, "Converted: %s\n", joinElements(res.ConvertedElements()))
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().BoolVar(&override, "override", false, "compare the target station against its own relations")
	return cmd
}

func parseID(v string) (uint, error) {
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid id %q", v)
	}
	return uint(n), nil
}

func joinElements(els []station.Element) string {
	if len(els) == 0 {
		return "-"
	}
	names := make([]string, len(els))
	for i, e := range els {
		names[i] = e.String()
	}
	return strings.Join(names, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
