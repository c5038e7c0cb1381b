package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"floodalert/internal/config"
	"floodalert/internal/geo"
	riskclient "floodalert/internal/modules/risk/client"
	riskservice "floodalert/internal/modules/risk/service"
	"floodalert/internal/upstream"
)

const userAgent = "floodctl/1.0"

// cli carries per-invocation settings so commands can be built fresh in tests.
type cli struct {
	v       *viper.Viper
	cfgFile string
	verbose bool
	asJSON  bool
}

func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:   "floodctl",
		Short: "Check flood risk from the command line",
		Long: `floodctl runs the flood risk pipeline against the live forecast APIs,
and manages the local emergency contacts, flood zones and watch list database.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig(cmd.ErrOrStderr())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&c.cfgFile, "config", "", "config file (default is $HOME/.floodctl.yaml)")
	pf.String("lat", "", "latitude of the position to check")
	pf.String("lon", "", "longitude of the position to check")
	pf.String("sqlite-path", "", "sqlite database file")
	pf.BoolVar(&c.asJSON, "json", false, "print JSON instead of text")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")
	cobra.CheckErr(c.v.BindPFlag("lat", pf.Lookup("lat")))
	cobra.CheckErr(c.v.BindPFlag("lon", pf.Lookup("lon")))
	cobra.CheckErr(c.v.BindPFlag("sqlite_path", pf.Lookup("sqlite-path")))

	c.v.SetDefault("river_api_url", config.DefaultRiverAPIURL)
	c.v.SetDefault("weather_api_url", config.DefaultWeatherAPIURL)
	c.v.SetDefault("routing_api_url", config.DefaultRoutingAPIURL)
	c.v.SetDefault("sqlite_path", "data/floodalert.db")
	c.v.SetDefault("timeout", 15*time.Second)

	root.AddCommand(
		c.newCheckCmd(),
		c.newEvacuationCmd(),
		c.newContactsCmd(),
		c.newTipsCmd(),
		c.newZonesCmd(),
		c.newPlacesCmd(),
		c.newMigrateCmd(),
	)
	return root
}

// initConfig reads the config file and FLOODCTL_* environment variables.
func (c *cli) initConfig(stderr io.Writer) error {
	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(stderr, &tint.Options{Level: level, TimeFormat: time.Kitchen})))

	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}
		c.v.AddConfigPath(home)
		c.v.SetConfigType("yaml")
		c.v.SetConfigName(".floodctl")
	}

	c.v.SetEnvPrefix("FLOODCTL")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if c.cfgFile == "" && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	slog.Debug("using config file", "path", c.v.ConfigFileUsed())
	return nil
}

// provider maps lat/lon from flags, env or config to a position source.
// Neither set means the location is unavailable, which yields the safe result.
func (c *cli) provider() (geo.Provider, error) {
	q := url.Values{}
	q.Set("lat", c.v.GetString("lat"))
	q.Set("lon", c.v.GetString("lon"))
	return geo.FromQuery(q)
}

func (c *cli) getter() *upstream.Getter {
	timeout := c.v.GetDuration("timeout")
	return upstream.NewGetter(upstream.NewHTTPClient(upstream.Timeouts{Connect: timeout, Read: timeout}), userAgent)
}

func (c *cli) riskService() *riskservice.Service {
	return riskservice.NewService(riskclient.NewOpenMeteoClient(c.v.GetString("river_api_url"), c.v.GetString("weather_api_url"), c.getter()))
}

func (c *cli) dbConfig() config.Config {
	return config.Config{
		SQLiteDriver:       "sqlite3",
		SQLitePath:         c.v.GetString("sqlite_path"),
		SQLiteMaxOpenConns: 1,
		SQLiteMaxIdleConns: 1,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
