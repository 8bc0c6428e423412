// Package cli implements the macmeta command line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/macmeta/macmeta"
	"github.com/macmeta/macmeta/log"
	"github.com/macmeta/macmeta/store/memory"
	"github.com/macmeta/macmeta/store/script"
	"github.com/macmeta/macmeta/store/sqlite"
)

var (
	cfgFile string
	logger  *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "macmeta",
	Short: "Read and write macOS file metadata",
	Long: `macmeta reads and writes file metadata such as Finder tags, label
colors, Finder comments and the structured kMDItem attributes, keeping the
redundant physical representations of each attribute consistent.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = log.NewLogger("macmeta",
			log.Parse(viper.GetString("log.level")),
			viper.GetString("log.file"),
			viper.GetBool("log.quiet"))
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .macmeta.yaml)")
	rootCmd.PersistentFlags().String("store", "auto", "attribute store: auto, native, memory or sqlite")
	rootCmd.PersistentFlags().String("db", "macmeta.db", "database path for the sqlite store")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error or silent")
	rootCmd.PersistentFlags().String("log-file", "", "log to this file with rotation")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress terminal log output")
	rootCmd.PersistentFlags().Bool("tz-utc", false, "return and interpret datetimes as UTC")

	viper.BindPFlag("store.driver", rootCmd.PersistentFlags().Lookup("store"))
	viper.BindPFlag("store.db", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
	viper.BindPFlag("log.quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	viper.BindPFlag("tz.utc", rootCmd.PersistentFlags().Lookup("tz-utc"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".macmeta")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("MACMETA")
	viper.AutomaticEnv()

	// A missing config file is fine; flags and defaults apply.
	_ = viper.ReadInConfig()
}

// openObject builds a MetadataObject for path honoring the configured store
// driver and timezone mode.
func openObject(path string) (*macmeta.MetadataObject, error) {
	opts := []macmeta.Option{
		macmeta.WithLogger(logger),
		macmeta.WithTZAware(viper.GetBool("tz.utc")),
		macmeta.WithTreatNaiveAsUTC(viper.GetBool("tz.utc")),
	}

	switch driver := viper.GetString("store.driver"); driver {
	case "auto", "native":
		// Platform default stores.
	case "memory":
		opts = append(opts, macmeta.WithStores(macmeta.ComposeStores(memory.New(), script.Unavailable{})))
	case "sqlite":
		db, err := sqlite.New(viper.GetString("store.db"))
		if err != nil {
			return nil, err
		}
		opts = append(opts, macmeta.WithStores(macmeta.ComposeStores(db, script.Unavailable{})))
	default:
		return nil, fmt.Errorf("unknown store driver '%s'", driver)
	}

	return macmeta.New(path, opts...)
}
