package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/josephlewis42/cshell/commands"
	"github.com/josephlewis42/cshell/core/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	cfgPath string

	// appFs is the filesystem configuration, scripts and logs are read from.
	appFs = afero.NewOsFs()

	errTooManyArgs = errors.New("Too many arguments")
)

func loadConfig() (*config.Configuration, error) {
	if cfgPath == "" {
		return config.New(appFs), nil
	}

	configuration, err := config.Load(appFs, cfgPath)

	if errors.Is(err, fs.ErrNotExist) {
		log.Println("Couldn't load config: did you run init?")
	}

	return configuration, err
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cshell [SCRIPT]",
	Short: "Unix command interpreter",
	Long: `A small Unix command interpreter.

Without arguments cshell reads commands interactively. Given a SCRIPT it runs
each line of the file then exits.`,
	SilenceErrors: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return errTooManyArgs
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sh, err := commands.NewShell(cfg, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		// Released on every path, including an unreadable script.
		defer sh.Close()

		if len(args) == 1 {
			fd, err := cfg.Fs().Open(args[0])
			if err != nil {
				return fmt.Errorf("Unable to read script file: %s", args[0])
			}
			defer fd.Close()

			return sh.RunScript(cmd.Context(), fd)
		}

		rl, err := commands.NewReadline(os.Stdin, cmd.OutOrStdout(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer rl.Close()

		return sh.RunInteractive(cmd.Context(), rl)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (.yaml or .toml)")
}
