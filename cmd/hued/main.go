// Hued is an SSDP responder daemon for a Philips Hue bridge.
//
// It answers SSDP discovery queries on behalf of a Hue bridge or a bridge
// emulation (HA-Bridge, node-red-contrib-amazon-echo). SSDP cannot discover
// devices in other subnets or in docker containers because the multicast
// datagrams do not pass gateways or the docker network bridge. When hued
// runs in the same subnet as the enumerator (e.g. an Amazon Echo) it answers
// the discovery queries and redirects the enumerator to the bridge, which is
// plain unicast HTTP and can live anywhere.
//
// Usage:
//
//	hued host:service [flags]
//
// See 'hued --help' for available options.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akschmitt/hued/internal/bridge"
	"github.com/akschmitt/hued/internal/config"
	"github.com/akschmitt/hued/internal/logging"
	"github.com/akschmitt/hued/internal/ssdp"
	"github.com/akschmitt/hued/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	configPath     string
	listenAddress  string
	multicastGroup string
	logLevel       string
)

var rootCmd = &cobra.Command{
	Use:   "hued host:service",
	Short: "SSDP discovery relay for a Philips Hue bridge",
	Long: `Hued makes a unicast-reachable Hue bridge (or emulator) discoverable by
SSDP enumerators that cannot reach it by multicast.

It listens for M-SEARCH queries on 239.255.255.250:1900, filters them by the
service types a Hue bridge advertises, and replies by unicast with the
bridge's real address. The bridge identity is read from the bridge's
description.xml at most once per refresh interval.

Exactly one parameter in the form 'host:service' is required, naming the real
bridge, e.g. 'my-hue.local:80'.`,
	Example: `  # Relay discovery to a bridge on another subnet
  hued my-hue.local:80

  # Bridge emulator on a non-standard port, with debug logging
  hued 10.0.0.42:8080 --log-level debug

  # Bind a specific interface address
  hued my-hue.local:80 --listen 192.168.1.10`,
	Args:          cobra.ExactArgs(1),
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runDaemon,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: platform config dir)")
	rootCmd.Flags().StringVar(&listenAddress, "listen", "", "Local address to bind the multicast socket to (default 0.0.0.0)")
	rootCmd.Flags().StringVar(&multicastGroup, "group", "", "SSDP multicast group to join (default 239.255.255.250)")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent if unset")

	rootCmd.AddCommand(versionCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	target, err := bridge.ParseTarget(args[0])
	if err != nil {
		return fmt.Errorf("exactly one parameter in the form 'host:service' is required: %w", err)
	}

	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Flags override the config file
	if listenAddress != "" {
		settings.ListenAddress = listenAddress
	}
	if multicastGroup != "" {
		settings.MulticastGroup = multicastGroup
	}
	if logLevel != "" {
		settings.LogLevel = logLevel
	}

	if err := logging.Initialize(settings.LogLevel); err != nil {
		return err
	}
	defer logging.Sync()

	responder, err := ssdp.New(&ssdp.Config{
		ListenAddress:   settings.ListenAddress,
		MulticastGroup:  settings.MulticastGroup,
		Port:            ssdp.DefaultPort,
		Bridge:          target,
		RefreshInterval: settings.Refresh(),
	})
	if err != nil {
		return err
	}

	return responder.Start()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hued %s\n", version.Full())
	},
}
