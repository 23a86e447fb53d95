// Package main is the headless simulation runner: batch runs for balance
// work and deterministic replay checks, no server required.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/polarnight-games/outpost31/internal/engine"
	"github.com/polarnight-games/outpost31/internal/events"
	"github.com/polarnight-games/outpost31/internal/platform/config"
	"github.com/polarnight-games/outpost31/internal/platform/logger"
)

func main() {
	root := &cobra.Command{
		Use:   "sim-runner",
		Short: "Headless Outpost 31 simulation runner",
	}
	root.AddCommand(runCmd(), verifyCmd())
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCmd() *cobra.Command {
	var (
		seed         int64
		turns        int
		scenarioPath string
		verbose      bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation to completion or a turn limit",
		RunE: func(cmd *cobra.Command, args []string) error {
			scn, err := loadScenario(scenarioPath)
			if err != nil {
				return err
			}
			sim, err := engine.NewSimulation(scn, seed, nil, logger.NewNop())
			if err != nil {
				return err
			}

			for i := 0; i < turns && !sim.Ended(); i++ {
				turnEvents, err := sim.AdvanceTurn()
				if err != nil {
					return err
				}
				if verbose {
					for _, e := range turnEvents {
						fmt.Printf("[%4d] %-22s %s -> %s\n", e.Turn, e.Type, e.ActorID, e.TargetID)
					}
				}
			}

			day, hour := sim.Time()
			fmt.Printf("seed=%d turns=%d day=%d hour=%02d:00 result=%s\n",
				seed, sim.Turn(), day, hour, resultOrLive(sim))
			for _, a := range sim.Agents() {
				status := "alive"
				if !a.Alive {
					status = "dead"
				}
				tag := ""
				if a.Infected {
					tag = " [infected]"
					if a.Revealed {
						tag = " [revealed]"
					}
				}
				fmt.Printf("  %-4s %-12s %s%s\n", a.ID, a.Name, status, tag)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 1, "simulation seed")
	cmd.Flags().IntVar(&turns, "turns", 500, "maximum turns to run")
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario yaml, empty for built-in")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print every event")
	return cmd
}

func verifyCmd() *cobra.Command {
	var (
		seed         int64
		turns        int
		scenarioPath string
	)
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run the same seed twice and compare event logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			scn, err := loadScenario(scenarioPath)
			if err != nil {
				return err
			}
			first, err := runLog(scn, seed, turns)
			if err != nil {
				return err
			}
			second, err := runLog(scn, seed, turns)
			if err != nil {
				return err
			}

			if len(first) != len(second) {
				return fmt.Errorf("log length mismatch: %d vs %d events", len(first), len(second))
			}
			for i := range first {
				if first[i] != second[i] {
					return fmt.Errorf("divergence at event %d: %q vs %q", i, first[i], second[i])
				}
			}
			fmt.Printf("ok: %d events identical across both runs\n", len(first))
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 1, "simulation seed")
	cmd.Flags().IntVar(&turns, "turns", 200, "turns to run")
	cmd.Flags().StringVar(&scenarioPath, "scenario", "", "scenario yaml, empty for built-in")
	return cmd
}

// runLog runs a fresh simulation and returns a comparable line per event.
func runLog(scn *config.Scenario, seed int64, turns int) ([]string, error) {
	sim, err := engine.NewSimulation(scn, seed, nil, logger.NewNop())
	if err != nil {
		return nil, err
	}
	for i := 0; i < turns && !sim.Ended(); i++ {
		if _, err := sim.AdvanceTurn(); err != nil {
			return nil, err
		}
	}
	var lines []string
	for _, e := range sim.Bus().Log() {
		lines = append(lines, eventLine(e))
	}
	return lines, nil
}

func eventLine(e events.GameEvent) string {
	return fmt.Sprintf("%d|%d|%s|%s|%s", e.Seq, e.Turn, e.Type, e.ActorID, e.TargetID)
}

func loadScenario(path string) (*config.Scenario, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func resultOrLive(sim *engine.Simulation) string {
	if sim.Ended() {
		return sim.Result()
	}
	return "LIVE"
}
