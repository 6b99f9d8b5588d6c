package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ayushgw/graphql-basics/internal/config"
)

// ConfigView is the printable form of the effective configuration.
type ConfigView struct {
	LogLevel        string `json:"log_level"`
	LogFormat       string `json:"log_format"`
	BrokerBuffer    int    `json:"broker_buffer"`
	BrokerPolicy    string `json:"broker_policy"`
	CounterInterval string `json:"counter_interval"`
	IDAttempts      int    `json:"id_attempts"`
	Seed            string `json:"seed,omitempty"`
}

func newConfigView(cfg config.Config) ConfigView {
	return ConfigView{
		LogLevel:        cfg.Log.Level,
		LogFormat:       cfg.Log.Format,
		BrokerBuffer:    cfg.Broker.Buffer,
		BrokerPolicy:    cfg.Broker.Policy,
		CounterInterval: cfg.Counter.Interval.String(),
		IDAttempts:      cfg.IDs.Attempts,
		Seed:            cfg.Seed,
	}
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Load the configuration file (or the defaults), validate it against
the schema and print the result.

Examples:
  graphstore config
  graphstore config --config ./graphstore.cue --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			cfg, err := rootOpts.LoadConfig()
			if err != nil {
				return f.Error(err)
			}
			view := newConfigView(cfg)

			if rootOpts.Format == "json" {
				return f.Success(view)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "log.level        = %s\n", view.LogLevel)
			fmt.Fprintf(w, "log.format       = %s\n", view.LogFormat)
			fmt.Fprintf(w, "broker.buffer    = %d\n", view.BrokerBuffer)
			fmt.Fprintf(w, "broker.policy    = %s\n", view.BrokerPolicy)
			fmt.Fprintf(w, "counter.interval = %s\n", view.CounterInterval)
			fmt.Fprintf(w, "ids.attempts     = %d\n", view.IDAttempts)
			if view.Seed != "" {
				fmt.Fprintf(w, "seed             = %s\n", view.Seed)
			}
			return nil
		},
	}
}
