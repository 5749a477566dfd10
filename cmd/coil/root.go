package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	red     = color.New(color.FgRed).SprintfFunc()
)

var rootCmd = &cobra.Command{
	Use:   "coil",
	Short: "Run precompiled coil code units",
}

func init() {
	cobra.OnInitialize(initConfig)
	viper.SetEnvPrefix("coil")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.coil.yaml)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("cpu-profile", "", "capture a CPU profile to this path")

	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("cpu-profile", rootCmd.PersistentFlags().Lookup("cpu-profile"))
	viper.AutomaticEnv()

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(disCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fatal("%s", err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".coil")
	}
	viper.ReadInConfig()
}

func fatal(format string, args ...any) {
	fmt.Fprintln(os.Stderr, red(format, args...))
	os.Exit(1)
}

func isTerminalIO() bool {
	stdout := os.Stdout.Fd()
	return isatty.IsTerminal(stdout) || isatty.IsCygwinTerminal(stdout)
}

func logger() zerolog.Logger {
	level, err := zerolog.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		level = zerolog.WarnLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: viper.GetBool("no-color") || !isTerminalIO()}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func startCPUProfile() func() {
	path := viper.GetString("cpu-profile")
	if path == "" {
		return func() {}
	}
	f, err := os.Create(path)
	if err != nil {
		fatal("cpu-profile: %s", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		fatal("cpu-profile: %s", err)
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}
}
