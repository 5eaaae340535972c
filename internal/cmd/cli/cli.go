package cli

import (
	"context"
	"errors"
	"fmt"
	"github.com/clambin/go-common/charmer"
	"github.com/clambin/tstat-exporter/pkg/tstat"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"
)

var (
	configFilename string
	RootCmd        = cobra.Command{
		Use:   "tstat",
		Short: "Utility for Radio Thermostat (CT30/CT50/CT80) thermostats",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger = newLogger(viper.GetBool("debug"))
			slog.SetDefault(logger)
		},
	}

	logger = slog.New(slog.DiscardHandler)
)

var args = charmer.Arguments{
	"debug":           {Default: false, Help: "Log debug messages"},
	"tstat.address":   {Default: "", Help: "Address of the thermostat (host[:port] or URL)"},
	"tstat.ttl":       {Default: tstat.DefaultTTL, Help: "How long a thermostat response is reused"},
	"tstat.registry":  {Default: "", Help: "YAML file with the key registry (default: detect the model)"},
	"poller.interval": {Default: 30 * time.Second, Help: "Poller interval"},
	"exporter.addr":   {Default: ":9090", Help: "Address of Prometheus exporter"},
	"health.addr":     {Default: ":8080", Help: "Address of /health endpoint"},
	"mqtt.url":        {Default: "", Help: "MQTT broker URL (e.g. tcp://localhost:1883)"},
	"mqtt.clientId":   {Default: "tstat", Help: "MQTT client ID"},
	"mqtt.username":   {Default: "", Help: "MQTT username"},
	"mqtt.password":   {Default: "", Help: "MQTT password"},
	"mqtt.prefix":     {Default: "tstat", Help: "MQTT topic prefix"},
	"influx.url":      {Default: "", Help: "InfluxDB URL"},
	"influx.token":    {Default: "", Help: "InfluxDB token"},
	"influx.org":      {Default: "", Help: "InfluxDB organization"},
	"influx.bucket":   {Default: "tstat", Help: "InfluxDB bucket"},
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&configFilename, "config", "", "Configuration file")
	_ = charmer.SetPersistentFlags(&RootCmd, viper.GetViper(), args)

	RootCmd.AddCommand(&getCmd, &keysCmd, &cloudCmd, &monitorCmd)
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "err", err)
	}

	if configFilename != "" {
		viper.SetConfigFile(configFilename)
	} else {
		viper.AddConfigPath("/etc/tstat/")
		viper.AddConfigPath("$HOME/.tstat")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("TSTAT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// a config file is optional: all settings can be passed as flags or environment variables
		var notFound viper.ConfigFileNotFoundError
		if configFilename != "" || !errors.As(err, &notFound) {
			slog.Error("failed to read config file", "err", err)
			os.Exit(1)
		}
	}
}

func newLogger(debug bool) *slog.Logger {
	var opts slog.HandlerOptions
	if debug {
		opts.Level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &opts))
}

// newClient connects to the thermostat configured in v. If v names a registry file, it replaces model detection.
func newClient(ctx context.Context, v *viper.Viper, httpClient *http.Client, logger *slog.Logger) (*tstat.Client, error) {
	address := v.GetString("tstat.address")
	if address == "" {
		return nil, errors.New("no thermostat address configured (tstat.address)")
	}

	options := []tstat.Option{
		tstat.WithTTL(v.GetDuration("tstat.ttl")),
		tstat.WithLogger(logger),
	}
	if httpClient != nil {
		options = append(options, tstat.WithHTTPClient(httpClient))
	}
	if filename := v.GetString("tstat.registry"); filename != "" {
		registry, err := loadRegistry(filename)
		if err != nil {
			return nil, fmt.Errorf("registry: %w", err)
		}
		options = append(options, tstat.WithRegistry(registry))
	}
	return tstat.New(ctx, address, options...)
}

func loadRegistry(filename string) (tstat.Registry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return tstat.LoadRegistry(f)
}
