package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/azqeurio/sd-to-c-sort/internal/app"
	"github.com/azqeurio/sd-to-c-sort/internal/config"
	apperrors "github.com/azqeurio/sd-to-c-sort/internal/errors"
	"github.com/azqeurio/sd-to-c-sort/internal/infra/exif"
	infrafs "github.com/azqeurio/sd-to-c-sort/internal/infra/fs"
	"github.com/azqeurio/sd-to-c-sort/internal/logging"
	"github.com/azqeurio/sd-to-c-sort/internal/presentation"
	"github.com/azqeurio/sd-to-c-sort/internal/tui"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "sdsort",
	Short: "Organize photos from a memory card into camera/date folders",
	Long: `sdsort scans a folder of photographs, reads each file's capture
metadata, and files it under the destination as:

  <dest>/<camera or lens>/[RAW|JPG/]<YYYY>/<YYYY-MM>/<YYYY-MM-DD>/<name>

Missing metadata falls back to file attributes; collisions are skipped,
renamed with a numeric suffix, or prompted for, depending on the
duplicate policy.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromViper(viper.GetViper())
		if err != nil {
			return apperrors.Wrap(apperrors.InvalidConfig, "config", "", err)
		}
		return run(cfg)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/sdsort/config.toml)")

	flags := rootCmd.Flags()
	flags.StringP("source", "s", "", "source directory to scan")
	flags.StringP("dest", "d", "", "destination root directory")
	flags.String("group-by", "camera", "top-level grouping: camera or lens")
	flags.Bool("separate-raw-jpg", false, "insert a RAW/JPG segment between group and date")
	flags.String("duplicates", "rename", "duplicate policy: skip, rename or ask")
	flags.String("mode", "copy", "transfer mode: copy or move")
	flags.Bool("recursive", true, "descend into subdirectories of the source")
	flags.Bool("skip-identical", false, "skip files whose content already exists at the destination")
	flags.Int("workers", 0, "transfer workers (0 = default)")
	flags.Bool("dry-run", false, "plan and resolve without writing anything")
	flags.BoolP("verbose", "v", false, "verbose output")
	flags.Bool("no-tui", false, "plain text output instead of the interactive view")

	must(viper.BindPFlag("source", flags.Lookup("source")))
	must(viper.BindPFlag("dest", flags.Lookup("dest")))
	must(viper.BindPFlag("group_by", flags.Lookup("group-by")))
	must(viper.BindPFlag("separate_raw_jpg", flags.Lookup("separate-raw-jpg")))
	must(viper.BindPFlag("duplicates", flags.Lookup("duplicates")))
	must(viper.BindPFlag("mode", flags.Lookup("mode")))
	must(viper.BindPFlag("recursive", flags.Lookup("recursive")))
	must(viper.BindPFlag("skip_identical", flags.Lookup("skip-identical")))
	must(viper.BindPFlag("workers", flags.Lookup("workers")))
	must(viper.BindPFlag("dry_run", flags.Lookup("dry-run")))
	must(viper.BindPFlag("verbose", flags.Lookup("verbose")))
	must(viper.BindPFlag("no_tui", flags.Lookup("no-tui")))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "sdsort"))
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SDSORT")
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	_ = viper.ReadInConfig()
}

func run(cfg config.Config) error {
	filesystem := infrafs.OSFS{}
	reader := exif.Reader{}

	pipe := &app.Pipeline{
		FS:       filesystem,
		Metadata: reader,
		Logger:   logging.New(os.Stderr, cfg.Verbose),
	}

	if cfg.NoTUI {
		pipe.Decider = &presentation.ConsolePrompter{In: os.Stdin, Out: os.Stderr}
		summary, err := pipe.Run(context.Background(), cfg)
		if err != nil {
			return err
		}
		printer := presentation.Printer{Writer: os.Stdout, Verbose: cfg.Verbose}
		printer.PrintSummary(summary, cfg.DryRun)
		return nil
	}

	summary, err := tui.Run(cfg, pipe)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		printer := presentation.Printer{Writer: os.Stdout, Verbose: true}
		printer.PrintSummary(summary, cfg.DryRun)
	}
	return nil
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, apperrors.UserMessage(err))
		os.Exit(1)
	}
}
