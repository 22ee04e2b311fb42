package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hsmkit/hsm"
	"github.com/hsmkit/hsm/pkg/domain"
)

// script is the canonical demo session: power on, rewind the tape, watch a
// movie with a break, rewind again, record something, power off.
var script = []string{
	"Power", "Rew", "Stop", "Play", "Pause", "Play", "Stop",
	"Rew", "Stop", "Rec", "Stop", "Power",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the recorder demo",
	Long:  `Runs the recorder through the canonical event script, or reads event names from stdin with --interactive (the default on a terminal).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		m, err := machineFromFlags(cmd)
		if err != nil {
			return err
		}

		interactive, _ := cmd.Flags().GetBool("interactive")
		if !cmd.Flags().Changed("interactive") {
			interactive = term.IsTerminal(int(os.Stdin.Fd()))
		}

		eng := hsm.New(m.bindings, hsm.WithLogger(logger))
		ctx := cmd.Context()
		if err := eng.Start(ctx, m.root); err != nil {
			return err
		}

		if interactive {
			return runInteractive(cmd, eng, m)
		}

		for _, name := range script {
			if err := eng.Send(ctx, m.events[name], nil); err != nil {
				return fmt.Errorf("dispatch %s: %w", name, err)
			}
		}
		return eng.Stop(ctx)
	},
}

func runInteractive(cmd *cobra.Command, eng *hsm.Engine, m *machine) error {
	ctx := cmd.Context()
	fmt.Printf("events: %s (quit to exit)\n", strings.Join(eventNames(m), ", "))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Printf("[%s] event> ", eng.Active().Path())
		if !scanner.Scan() {
			break
		}
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		if strings.EqualFold(name, "quit") {
			break
		}

		id, ok := lookupEvent(m, name)
		if !ok {
			fmt.Printf("unknown event: %s\n", name)
			continue
		}
		if err := eng.Dispatch(ctx, &domain.Message{Event: id}); err != nil {
			return err
		}
	}

	if !eng.Halted() {
		return eng.Stop(ctx)
	}
	return scanner.Err()
}

func lookupEvent(m *machine, name string) (domain.EventID, bool) {
	for candidate, id := range m.events {
		if strings.EqualFold(candidate, name) {
			return id, true
		}
	}
	return 0, false
}

func eventNames(m *machine) []string {
	names := make([]string, 0, len(m.events))
	for name := range m.events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("interactive", false, "Read event names from stdin (default when stdin is a terminal)")
}
