/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	serial "github.com/allbin/go-serialport"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serialport",
	Short: "Talk to serial devices from the terminal",
	Long: `serialport opens, monitors and controls serial devices on Linux and Windows.

Link settings can be given as flags, as SERIALPORT_* environment variables
(SERIALPORT_BAUD=115200) or in $HOME/.serialport.yaml:

  baud: 115200
  parity: even
  stop-bits: "2"`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		slog.SetDefault(newLogger())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.serialport.yaml)")
	pf.IntP("baud", "b", 9600, "Baud rate")
	pf.Int("data-bits", 8, "Data bits: 5, 6, 7 or 8")
	pf.String("parity", "none", "Parity: none, odd, even, mark, space")
	pf.String("stop-bits", "1", "Stop bits: 1, 1.5 or 2")
	pf.Bool("hupcl", false, "Keep DTR low while open and hang up on close")
	pf.Bool("no-lock", false, "Open the port without exclusive access")
	pf.Int("buffer", 64*1024, "Read buffer size")
	pf.BoolP("verbose", "v", false, "Enable debug logging")

	if err := viper.BindPFlags(pf); err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".serialport")
	}

	viper.SetEnvPrefix("SERIALPORT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// linkConfig builds the port configuration from flags, environment and
// config file.
func linkConfig() (serial.Config, error) {
	parity, err := serial.ParseParity(strings.ToLower(viper.GetString("parity")))
	if err != nil {
		return serial.Config{}, err
	}
	stopBits, err := serial.ParseStopBits(viper.GetString("stop-bits"))
	if err != nil {
		return serial.Config{}, err
	}

	cfg := serial.Config{
		BaudRate:      viper.GetInt("baud"),
		DataBits:      viper.GetInt("data-bits"),
		Parity:        parity,
		StopBits:      stopBits,
		HangupOnClose: viper.GetBool("hupcl"),
		Lock:          !viper.GetBool("no-lock"),
		BufferSize:    viper.GetInt("buffer"),
	}
	return cfg, cfg.Validate()
}

// portOptions returns the options every command opens ports with
func portOptions(extra ...serial.Option) ([]serial.Option, error) {
	cfg, err := linkConfig()
	if err != nil {
		return nil, err
	}
	opts := []serial.Option{
		serial.WithConfig(cfg),
		serial.WithLogger(slog.Default()),
	}
	return append(opts, extra...), nil
}

func openPort(portPath string, extra ...serial.Option) (*serial.Port, error) {
	opts, err := portOptions(extra...)
	if err != nil {
		return nil, err
	}
	return serial.Open(portPath, opts...)
}
