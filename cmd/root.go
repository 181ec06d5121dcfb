package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gloudstoun/socketsentry/config"
	"github.com/gloudstoun/socketsentry/scan"
	"github.com/gloudstoun/socketsentry/version"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var debug bool
var timeoutMS int
var budgetMS int
var parallelism int
var portSelection string
var scanType = "connect"
var versionRequested bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&versionRequested, "version", "", versionRequested, "Output version information and exit")
	rootCmd.PersistentFlags().StringVarP(&scanType, "scan-type", "s", scanType, "Scan type. Must be one of connect, syn")
	rootCmd.PersistentFlags().BoolVarP(&debug, "verbose", "v", debug, "Enable verbose logging")
	rootCmd.PersistentFlags().IntVarP(&timeoutMS, "timeout-ms", "t", timeoutMS, "Per-port timeout in MS")
	rootCmd.PersistentFlags().IntVarP(&budgetMS, "budget-ms", "b", budgetMS, "Wall-clock budget for the whole scan in MS")
	rootCmd.PersistentFlags().IntVarP(&parallelism, "workers", "w", parallelism, "Parallel routines to scan on")
	rootCmd.PersistentFlags().StringVarP(&portSelection, "ports", "p", portSelection, "Ports to scan. Comma separated, can use hyphens e.g. 22,80,443,8080-8090. Empty means a single liveness probe")
}

func createScanner(scanTypeStr string, cfg *config.Config, perPortTimeout, totalBudget time.Duration, routines int) (scan.Scanner, error) {
	switch strings.ToLower(scanTypeStr) {
	case "syn", "stealth", "fast":
		if os.Geteuid() > 0 {
			return nil, fmt.Errorf("Access Denied: You must be a priviliged user to run this type of scan.")
		}
		s := scan.NewSynScanner(perPortTimeout, totalBudget)
		s.MaxPorts = cfg.MaxPorts
		s.LivenessPort = cfg.LivenessPort
		return s, nil
	case "connect":
		s := scan.NewConnectScanner(perPortTimeout, totalBudget, routines)
		s.MaxPorts = cfg.MaxPorts
		s.LivenessPort = cfg.LivenessPort
		return s, nil
	}

	return nil, fmt.Errorf("Unknown scan type '%s'", scanTypeStr)
}

var rootCmd = &cobra.Command{
	Use:   "socketsentry [host]",
	Short: "Socketsentry is a host reachability and TCP port diagnostics tool",
	Long:  `A network diagnostics tool which checks host reachability and enumerates open TCP ports under a strict time budget.`,
	Run: func(cmd *cobra.Command, args []string) {

		if versionRequested {
			v := version.Version
			if v == "" {
				v = "development version"
			}
			fmt.Printf("socketsentry %s\n", v)
			return
		}

		if debug {
			log.SetLevel(log.DebugLevel)
		}

		if len(args) != 1 {
			fmt.Println("Please specify a target host")
			os.Exit(1)
		}

		cfg := config.Load()

		perPortTimeout := cfg.PerPortTimeout
		if timeoutMS > 0 {
			perPortTimeout = time.Millisecond * time.Duration(timeoutMS)
		}
		totalBudget := cfg.TotalBudget
		if budgetMS > 0 {
			totalBudget = time.Millisecond * time.Duration(budgetMS)
		}
		routines := cfg.MaxWorkers
		if parallelism > 0 {
			routines = parallelism
		}

		ports, err := scan.ParsePortSpec(portSelection)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		scanner, err := createScanner(scanType, cfg, perPortTimeout, totalBudget, routines)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		target, err := scan.Resolve(cmd.Context(), args[0])
		if err != nil {
			fmt.Println(describeFailure(err))
			os.Exit(1)
		}

		log.Debugf("Scanning target %s (%s)...", target.Input, target.Addr)

		report, err := scanner.Scan(cmd.Context(), target, ports)
		if err != nil {
			fmt.Println(describeFailure(err))
			os.Exit(1)
		}

		fmt.Println(renderReport(report))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
