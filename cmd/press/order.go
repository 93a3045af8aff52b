package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zulandar/pressyard/internal/config"
	"github.com/zulandar/pressyard/internal/notify"
	"github.com/zulandar/pressyard/internal/station"
	"github.com/zulandar/pressyard/internal/workflow"
)

func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Production order workflow commands",
	}

	cmd.AddCommand(newOrderRevertCmd())
	cmd.AddCommand(newOrderRevertPropertiesCmd())
	cmd.AddCommand(newOrderDeleteCmd())
	cmd.AddCommand(newOrderAdvanceCmd())
	cmd.AddCommand(newOrderStateCmd())
	cmd.AddCommand(newOrderSetStateCmd())
	cmd.AddCommand(newOrderWidthCmd())
	return cmd
}

// withService opens the store and runs fn against a workflow service.
func withService(configPath string, fn func(cfg *config.Config, svc *workflow.Service) error) error {
	cfg, gormDB, err := openStore(configPath)
	if err != nil {
		return err
	}
	return fn(cfg, newService(cfg, gormDB))
}

// deliver sends the records of a workflow operation and reports how many
// went out.
func deliver(cmd *cobra.Command, cfg *config.Config, recs []notify.Record) error {
	if len(recs) == 0 {
		return nil
	}
	sink, err := newSink(cfg.Notify)
	if err != nil {
		return err
	}
	if err := notify.SendAll(context.Background(), sink, recs); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Sent %d notifications\n", len(recs))
	return nil
}

func newOrderRevertCmd() *cobra.Command {
	var (
		configPath string
		actor      uint
	)

	cmd := &cobra.Command{
		Use:   "revert <order-id>",
		Short: "Send an order back to the preparer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withService(configPath, func(cfg *config.Config, svc *workflow.Service) error {
				recs, err := svc.RevertToPreparer(id, actor)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Order %d reverted to the preparer\n", id)
				return deliver(cmd, cfg, recs)
			})
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().UintVar(&actor, "actor", 0, "user id performing the revert")
	return cmd
}

func newOrderRevertPropertiesCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "revert-properties <prod-order-id> <station>",
		Short: "Archive the live properties of a production order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := station.Parse(args[1])
			if err != nil {
				return err
			}
			return withService(configPath, func(cfg *config.Config, svc *workflow.Service) error {
				tos, err := svc.RevertProperties(id, st)
				if err != nil {
					return err
				}
				if len(tos) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "Production order %d has no properties to revert\n", id)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Properties of production order %d reverted\n", id)
				recs, err := svc.PropertiesRevertedRecords(id, st, tos)
				if err != nil {
					return err
				}
				return deliver(cmd, cfg, recs)
			})
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func newOrderDeleteCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "delete <order-id>",
		Short: "Delete the production order of an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withService(configPath, func(cfg *config.Config, svc *workflow.Service) error {
				recs, err := svc.DeleteProductionOrder(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Production order of order %d deleted\n", id)
				return deliver(cmd, cfg, recs)
			})
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func newOrderAdvanceCmd() *cobra.Command {
	var (
		configPath string
		actor      uint
	)

	cmd := &cobra.Command{
		Use:   "advance <prod-order-id> <from> <to>",
		Short: "Move the converted elements of an order to the next station",
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
			return withService(configPath, func(_ *config.Config, svc *workflow.Service) error {
				res, err := svc.Advance(id, from, to, actor)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Advanced %s from %s to %s\n", joinElements(res.ConvertedElements()), from, to)
				if standBy := res.StandByElements(); len(standBy) > 0 {
					fmt.Fprintf(out, "Still on stand-by: %s\n", joinElements(standBy))
				}
				return nil
			})
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().UintVar(&actor, "actor", 0, "user id performing the advance")
	return cmd
}

func newOrderStateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "state <order-id>",
		Short: "Show which production button an order offers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withService(configPath, func(_ *config.Config, svc *workflow.Service) error {
				state, err := svc.ProductionState(id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Order %d: %s (%d)\n", id, state, int(state))
				return nil
			})
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

func newOrderSetStateCmd() *cobra.Command {
	var (
		configPath string
		actor      uint
		remarks    string
	)

	cmd := &cobra.Command{
		Use:   "set-state <prod-order-id> <station> <element> <action> <state>",
		Short: "Record the state of one action of an element",
		Args:  cobra.ExactArgs(5),
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
			action, err := parseID(args[3])
			if err != nil {
				return err
			}
			state, err := parseID(args[4])
			if err != nil {
				return err
			}
			return withService(configPath, func(_ *config.Config, svc *workflow.Service) error {
				if err := svc.SetState(id, st, el, action, state, actor, remarks); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s action %d at %s set to state %d\n", el, action, st, state)
				return nil
			})
		},
	}

	addConfigFlag(cmd, &configPath)
	cmd.Flags().UintVar(&actor, "actor", 0, "user id recording the state")
	cmd.Flags().StringVar(&remarks, "remarks", "", "remarks stored with the state")
	return cmd
}

func newOrderWidthCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "width <prod-order-id> <element>",
		Short: "Show the workshop's spine measurement of an element",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			el, err := station.ParseElement(args[1])
			if err != nil {
				return err
			}
			return withService(configPath, func(_ *config.Config, svc *workflow.Service) error {
				w, err := svc.WorkshopWidth(id, el)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Width:      %s\n", formatMM(w.Width))
				fmt.Fprintf(out, "Requested:  %s\n", formatMM(w.WidthRequested))
				fmt.Fprintf(out, "Real spine: %s\n", formatMM(w.RealSpine))
				if w.ShowRequestBtn {
					fmt.Fprintln(out, "A measurement can be requested.")
				}
				return nil
			})
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}

// formatMM renders a millimetre value without trailing zeros.
func formatMM(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " mm"
}
