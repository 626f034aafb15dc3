package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"platdiag/internal/fanout"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// workerExecutable allows mocking the re-exec target in tests.
var workerExecutable = os.Executable

var hackbenchCmd = &cobra.Command{
	Use:   "hackbench [-pipe] <num_groups> [process|thread] [loops]",
	Short: "Scheduler/IPC stress test (fan-out/fan-in message groups)",
	Long: `Spawns groups of senders and receivers exchanging fixed-size messages
over unix socketpairs (or pipes with -pipe), releases them simultaneously
and reports the wall time from release to the last worker exit.

The argument surface matches the original tool: a leading -pipe, then up
to three positionals (number of groups, process|thread, loops). The
channel count per group and the message size are configurable through
long flags the original hardcoded.`,
	// The legacy surface mixes "-pipe" with positionals; parse by hand.
	DisableFlagParsing: true,
	SilenceUsage:       true,
	RunE:               runHackbench,
}

func init() {
	rootCmd.AddCommand(hackbenchCmd)
}

func runHackbench(cmd *cobra.Command, args []string) error {
	cfg, err := parseHackbenchArgs(args,
		viper.GetInt("hackbench.fds_per_group"),
		viper.GetInt("hackbench.datasize"))
	if err != nil {
		if err == errHackbenchHelp {
			return cmd.Help()
		}
		cmd.SilenceUsage = false
		return err
	}

	exe, err := workerExecutable()
	if err != nil {
		return fmt.Errorf("hackbench: locating executable: %w", err)
	}
	sp := fanout.NewSpawner(cfg, exe, "hackbench-worker")

	fmt.Fprintf(cmd.OutOrStdout(), "Running with %d*%d (== %d) tasks.\n",
		cfg.Groups, 2*cfg.FDsPerGroup, cfg.Tasks())

	elapsed, err := fanout.Run(cfg, sp)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Time: %d.%03d\n",
		elapsed/time.Second, (elapsed%time.Second)/time.Millisecond)
	return nil
}

var errHackbenchHelp = fmt.Errorf("help requested")

// parseHackbenchArgs handles the historical positional CLI plus the extra
// long flags. Defaults: 10 groups, process mode, 100 loops.
func parseHackbenchArgs(args []string, defFDs, defData int) (fanout.Config, error) {
	cfg := fanout.Config{
		Groups:      10,
		FDsPerGroup: defFDs,
		Loops:       100,
		DataSize:    defData,
		Mode:        fanout.ModeProcess,
	}
	if cfg.FDsPerGroup <= 0 {
		cfg.FDsPerGroup = 20
	}
	if cfg.DataSize <= 0 {
		cfg.DataSize = fanout.DefaultDataSize
	}

	var positionals []string
	for i, a := range args {
		switch {
		case a == "-h" || a == "--help":
			return cfg, errHackbenchHelp
		case a == "-pipe" || a == "--pipe":
			if i != 0 {
				return cfg, fmt.Errorf("hackbench: -pipe must come first")
			}
			cfg.UsePipes = true
		case strings.HasPrefix(a, "--fds="):
			n, err := strconv.Atoi(strings.TrimPrefix(a, "--fds="))
			if err != nil || n <= 0 {
				return cfg, fmt.Errorf("hackbench: invalid fds count %q", a)
			}
			cfg.FDsPerGroup = n
		case strings.HasPrefix(a, "--datasize="):
			n, err := strconv.Atoi(strings.TrimPrefix(a, "--datasize="))
			if err != nil || n <= 0 {
				return cfg, fmt.Errorf("hackbench: invalid data size %q", a)
			}
			cfg.DataSize = n
		case strings.HasPrefix(a, "-"):
			return cfg, fmt.Errorf("hackbench: unknown option %q", a)
		default:
			positionals = append(positionals, a)
		}
	}

	if len(positionals) > 3 {
		return cfg, fmt.Errorf("hackbench: too many arguments")
	}
	if len(positionals) >= 1 {
		n, err := strconv.Atoi(positionals[0])
		if err != nil || n <= 0 {
			return cfg, fmt.Errorf("hackbench: invalid group count %q", positionals[0])
		}
		cfg.Groups = n
	}
	if len(positionals) >= 2 {
		switch positionals[1] {
		case "process":
			cfg.Mode = fanout.ModeProcess
		case "thread":
			cfg.Mode = fanout.ModeThread
		default:
			return cfg, fmt.Errorf("hackbench: bad mode %q, want process or thread", positionals[1])
		}
	}
	if len(positionals) == 3 {
		n, err := strconv.Atoi(positionals[2])
		if err != nil || n < 0 {
			return cfg, fmt.Errorf("hackbench: invalid loop count %q", positionals[2])
		}
		cfg.Loops = n
	}
	return cfg, nil
}
