package cmd

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/experiment"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/errors"
	"github.com/Mahnoor-1225/EMAIL-CLASSIFIER/pkg/log"
)

var description = `
emailclassifier compares five classifiers on a labelled e-mail word-count
table (multinomial naive Bayes, RBF SVM, random forest, logistic regression
and a decision tree), then tunes the random forest by cross-validated grid
search and reports accuracy, precision, recall and F1 for each.

Settings come from defaults, an optional YAML file (--config), EMAILCLF_*
environment variables and flags, in increasing priority.
`

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"data":      "data.path",
	"target":    "data.target",
	"log-level": "log.level",
	"plot":      "report.plotPath",
	"progress":  "tuning.progress",
	"n-jobs":    "tuning.nJobs",
}

// NewRootCommand builds the command. The report goes to stdout, logs and the
// progress bar to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string
	v := viper.New()
	defaults := experiment.DefaultConfig()

	root := &cobra.Command{
		Use:               "emailclassifier [flags]",
		Short:             "compare and tune e-mail spam classifiers.",
		Long:              description,
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := experiment.LoadConfig(v, cfgFile)
			if err != nil {
				return err
			}
			if err := log.SetupLogger(cfg.Log.Level, stderr); err != nil {
				return err
			}
			logger := log.GetLogger()
			logger.Debug("Configuration loaded", log.PathKey, cfg.Data.Path, "config_file", cfgFile)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			runner := experiment.NewRunner(cfg, stdout,
				experiment.WithLogger(logger),
				experiment.WithProgressWriter(stderr),
			)
			if _, err := runner.Run(ctx); err != nil {
				logger.Error("Run failed", err)
				return err
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.Flags()
	flags.StringVarP(&cfgFile, "config", "c", "", "path to a YAML configuration file")
	flags.StringP("data", "d", defaults.Data.Path, "path to the labelled CSV file")
	flags.String("target", defaults.Data.Target, "name of the label column")
	flags.String("log-level", defaults.Log.Level, "log level: debug, info, warn or error")
	flags.String("plot", defaults.Report.PlotPath, "write a metric comparison chart to this file")
	flags.Bool("progress", defaults.Tuning.Progress, "show a progress bar during the grid search")
	flags.Int("n-jobs", defaults.Tuning.NJobs, "concurrent grid search fits (-1 = all CPUs)")

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := ExecuteContext(context.Background(), os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// ExecuteContext runs the root command with args.
func ExecuteContext(ctx context.Context, args []string) error {
	root := NewRootCommand(os.Stdout, os.Stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return errors.Wrap(err, "emailclassifier")
	}
	return nil
}
