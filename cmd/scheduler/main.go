package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"rtos-scheduler/internal/policy"
	"rtos-scheduler/internal/report"
	"rtos-scheduler/internal/sched"
	"rtos-scheduler/internal/task"
	"rtos-scheduler/pkg/config"
	"rtos-scheduler/pkg/logger"
	"rtos-scheduler/pkg/metrics"

	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	flagPolicy  string
	flagTicks   uint32
	flagWeights string
)

var rootCmd = &cobra.Command{
	Use:   "rtos-scheduler",
	Short: "Tick-based real-time task scheduler with pluggable decision policies",
	Long: `rtos-scheduler replays a fixed periodic taskset under a deadline-miss
model, one scheduling decision per tick. The decision policy is pluggable:
a quantized neural network trained offline, or classical rules (EDF,
Rate-Monotonic, Round-Robin).`,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scheduler for a fixed number of ticks",
	RunE:  runScheduler,
}

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List available decision policies",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range policy.Names() {
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	runCmd.Flags().StringVar(&flagPolicy, "policy", "", "decision policy (overrides config)")
	runCmd.Flags().Uint32Var(&flagTicks, "ticks", 0, "tick count, 0 = one hyperperiod (overrides config)")
	runCmd.Flags().StringVar(&flagWeights, "weights", "", "weights artifact path (overrides config)")
	rootCmd.AddCommand(runCmd, policiesCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	if err := config.LoadConfig(cfgFile); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg := config.GetConfig()

	if flagPolicy != "" {
		cfg.Policy.Name = flagPolicy
	}
	if flagWeights != "" {
		cfg.Policy.WeightsPath = flagWeights
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Scheduler.Ticks = flagTicks
	}

	logger.Initialize(&cfg.Logging)
	log := logger.GetLogger()

	specs, err := cfg.Taskset.Resolve()
	if err != nil {
		return err
	}
	tasks := make([]*task.Task, len(specs))
	for i, ts := range specs {
		tasks[i] = task.New(i, ts.Period, ts.Deadline, ts.WCET)
	}

	// The Q-scale of the state vector must match the one the weights were
	// quantized with; classical policies just need a consistent layout.
	scale := int32(policy.DefaultScale)
	var net *policy.Network
	if cfg.Policy.Name == "neural" {
		net, err = policy.LoadNetwork(cfg.Policy.WeightsPath)
		if err != nil {
			return err
		}
		if err := net.Validate(len(tasks)); err != nil {
			return fmt.Errorf("weights artifact does not fit taskset: %w", err)
		}
		scale = net.Scale
	}

	pol, err := policy.New(cfg.Policy.Name, net)
	if err != nil {
		return err
	}

	s := sched.New(tasks, pol, scale)

	reporters := report.MultiReporter{report.NewLogReporter()}
	if cfg.Metrics.Enabled {
		m := metrics.NewSchedulerMetrics()
		srv := metrics.NewMetricsServer(&cfg.Metrics)
		if err := srv.Start(); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Stop(ctx); err != nil {
				log.Errorf("Failed to stop metrics server: %v", err)
			}
		}()
		reporters = append(reporters, report.NewMetricsReporter(m))
	}

	ticks := cfg.Scheduler.Ticks
	if ticks == 0 {
		ticks = s.Hyperperiod()
	}
	log.Infof("Starting scheduler: policy=%s tasks=%d ticks=%d", pol.Name(), len(tasks), ticks)

	s.Run(ticks, cfg.Scheduler.ReportInterval, reporters)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
