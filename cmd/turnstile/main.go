// Command turnstile is a small demonstration binary: it builds the classic
// coin-operated turnstile machine and either drives it through a sequence of
// events (run) or renders its transition table (dot, json).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/comalice/fsmx"
	"github.com/comalice/fsmx/fsmzap"
	"github.com/comalice/fsmx/viz"
)

type state string

type event string

const (
	locked   state = "LOCKED"
	unlocked state = "UNLOCKED"

	coin event = "COIN"
	pass event = "PASS"
)

type turnstile struct {
	unlocks int
	locks   int
	thanks  int
	alarms  int
}

func definition() (*fsmx.Definition[state, event, *turnstile], error) {
	b := fsmx.NewBuilder[state, event, *turnstile]()

	steps := []error{
		b.Transition(locked, coin, fsmx.To(unlocked), nil,
			func(t *turnstile, _ event, _, _ state, _ ...any) error { t.unlocks++; return nil }),
		b.Transition(unlocked, pass, fsmx.To(locked), nil,
			func(t *turnstile, _ event, _, _ state, _ ...any) error { t.locks++; return nil }),
		b.Transition(unlocked, coin, nil, nil,
			func(t *turnstile, _ event, _, _ state, _ ...any) error { t.thanks++; return nil }),
		b.DefaultAction(
			func(t *turnstile, _ event, _, _ state, _ ...any) error { t.alarms++; return nil }),
		b.Initial(func(*turnstile) state { return locked }),
	}
	for _, err := range steps {
		if err != nil {
			return nil, err
		}
	}
	return b.Build()
}

func newRootCommand() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "turnstile",
		Short:         "Drive and inspect the demo turnstile state machine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(newRunCommand(&verbose))
	cmd.AddCommand(newDotCommand())
	cmd.AddCommand(newJSONCommand())
	return cmd
}

func newRunCommand(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "run [event ...]",
		Short: "Send a sequence of events to a fresh turnstile",
		Long: `Send a sequence of COIN and PASS events to a freshly created turnstile
instance and log every dispatch. Without arguments a canned sequence is used.

Example:
  turnstile run COIN PASS COIN COIN PASS`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := buildLogger(*verbose)
			if err != nil {
				return err
			}
			defer log.Sync()

			def, err := definition()
			if err != nil {
				return err
			}
			ts := &turnstile{}
			inst, err := def.NewInstance(ts)
			if err != nil {
				return err
			}
			inst.AddObserver(fsmzap.New[state, event](log))

			events := []event{coin, pass, coin, coin, pass, pass}
			if len(args) > 0 {
				events = events[:0]
				for _, a := range args {
					events = append(events, event(a))
				}
			}

			for _, e := range events {
				if err := inst.SendEvent(e); err != nil {
					return fmt.Errorf("send %s: %w", e, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "final state: %s\n", inst.Current())
			fmt.Fprintf(cmd.OutOrStdout(), "unlocks=%d locks=%d thanks=%d alarms=%d\n",
				ts.unlocks, ts.locks, ts.thanks, ts.alarms)
			return nil
		},
	}
}

func newDotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dot",
		Short: "Print the machine as Graphviz DOT",
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := definition()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), viz.ExportDOT(def))
			return nil
		},
	}
}

func newJSONCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "json",
		Short: "Print the machine's transition table as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := definition()
			if err != nil {
				return err
			}
			data, err := viz.ExportJSON(def)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func buildLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	return cfg.Build()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
