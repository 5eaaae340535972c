package cli

import (
	"encoding/json"
	"fmt"
	"github.com/clambin/tstat-exporter/internal/cmd/get"
	"github.com/clambin/tstat-exporter/internal/cmd/monitor"
	"github.com/clambin/tstat-exporter/pkg/tstat"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"io"
	"os/signal"
	"syscall"
)

var (
	getCmd = cobra.Command{
		Use:   "get [key...]",
		Short: "Show the current value of one or more keys (default: all keys)",
		RunE: func(cmd *cobra.Command, keys []string) error {
			c, err := newClient(cmd.Context(), viper.GetViper(), nil, logger)
			if err != nil {
				return err
			}
			raw, _ := cmd.Flags().GetBool("raw")
			format, _ := cmd.Flags().GetString("format")
			e, err := newEncoder(cmd.OutOrStdout(), format)
			if err != nil {
				return err
			}
			return get.Show(cmd.Context(), c, keys, raw, e)
		},
	}

	keysCmd = cobra.Command{
		Use:   "keys",
		Short: "List the keys supported by the thermostat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newClient(cmd.Context(), viper.GetViper(), nil, logger)
			if err != nil {
				return err
			}
			return get.ShowKeys(c, cmd.OutOrStdout())
		},
	}

	cloudCmd = cobra.Command{
		Use:       "cloud on|off",
		Short:     "Enable or disable the thermostat's cloud mode",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd.Context(), viper.GetViper(), nil, logger)
			if err != nil {
				return err
			}
			status, err := c.SetCloudMode(cmd.Context(), args[0] == "on")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "cloud mode %s: %d\n", args[0], status)
			return err
		},
	}

	monitorCmd = cobra.Command{
		Use:   "monitor",
		Short: "Export the thermostat's readings as Prometheus metrics and to the configured sinks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			v := viper.GetViper()
			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			m := tstat.NewRequestMetrics("tstat", "monitor", prometheus.Labels{"thermostat": v.GetString("tstat.address")})
			registry.MustRegister(m)

			c, err := newClient(ctx, v, tstat.NewInstrumentedHTTPClient(m), logger.With("component", "tstat"))
			if err != nil {
				return err
			}
			logger.Info("tstat monitor starting", "version", cmd.Root().Version, "address", v.GetString("tstat.address"))
			defer logger.Info("tstat monitor stopped")

			return monitor.Run(ctx, v, c, registry, logger)
		},
	}
)

func init() {
	getCmd.Flags().Bool("raw", false, "Show raw values, as reported by the thermostat")
	getCmd.Flags().String("format", "yaml", "Output format (yaml or json)")
}

func newEncoder(w io.Writer, format string) (get.Encoder, error) {
	switch format {
	case "yaml":
		return yaml.NewEncoder(w), nil
	case "json":
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e, nil
	default:
		return nil, fmt.Errorf("invalid format %q: must be yaml or json", format)
	}
}
