package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/srlehn/termvt"
	"github.com/srlehn/termvt/internal/config"
	"github.com/srlehn/termvt/internal/errors"
	"github.com/srlehn/termvt/internal/logx"
)

var rootCmd = &cobra.Command{
	Use:              filepath.Base(os.Args[0]),
	Short:            "vtctl manage linux virtual terminals",
	Long:             "vtctl allocates, switches, blanks and configures linux virtual terminals",
	SilenceUsage:     true,
	TraverseChildren: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(1)
	},
}

var (
	debugFlag   bool
	silentFlag  bool
	cfgFileFlag string
)

var vip = viper.New()

func init() {
	cobra.EnablePrefixMatching = true
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&debugFlag, `debug`, `d`, false, `debug errors`)
	pf.BoolVarP(&silentFlag, `silent`, `s`, false, `silence errors`)
	pf.StringP(`log-file`, `l`, ``, `log file (- for stderr)`)
	pf.StringVarP(&cfgFileFlag, `config`, `c`, ``, `config file (default: vtctl.yaml in ., ~/.config/vtctl, /etc/vtctl)`)
	pf.String(`console`, ``, `console control device`)
	pf.String(`tty-format`, ``, `vt device path format`)
	pf.String(`log-level`, ``, `log level (debug, info, warn, error)`)
	_ = vip.BindPFlag(config.KeyConsolePath, pf.Lookup(`console`))
	_ = vip.BindPFlag(config.KeyTTYFormat, pf.Lookup(`tty-format`))
	_ = vip.BindPFlag(config.KeyLogLevel, pf.Lookup(`log-level`))
	_ = vip.BindPFlag(config.KeyLogFile, pf.Lookup(`log-file`))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

type consoleFunc func(c *termvt.Console) error

// run opens the console with the configured options, runs fn and exits.
func run(fn consoleFunc) {
	var (
		c        *termvt.Console
		exitCode int
		err      error
	)
	defer func() {
		if r := recover(); r != nil {
			exitCode = 1
			logx.Error(`recovered panic`, c, `panic`, r)
			if !silentFlag {
				if stackFramer, ok := r.(interface{ ErrorStack() string }); ok {
					fmt.Fprintln(os.Stderr, "\n"+stackFramer.ErrorStack())
				} else {
					fmt.Fprintln(os.Stderr, r)
					debug.PrintStack()
				}
			}
		}
		_ = c.Close()
		os.Exit(exitCode)
	}()
	if fn == nil {
		err = errors.NilParam()
	} else {
		c, err = openConsole()
		if err == nil {
			err = fn(c)
		}
	}
	exitCode = reportErr(err, c, os.Stderr)
}

// reportErr logs err and prints it to w unless silenced. It returns the
// exit code.
func reportErr(err error, lp logx.LoggerProvider, w io.Writer) int {
	if err = logx.Err(err, lp, slog.LevelError); err == nil {
		return 0
	}
	if !silentFlag {
		if stackFramer, ok := err.(interface{ ErrorStack() string }); debugFlag && ok {
			fmt.Fprintln(w, "\n"+stackFramer.ErrorStack())
		} else {
			fmt.Fprintln(w, err.Error())
		}
	}
	return 1
}

func openConsole() (*termvt.Console, error) {
	cfg, err := config.Load(vip, cfgFileFlag)
	if err != nil {
		return nil, err
	}
	var c *termvt.Console
	opts := termvt.Options{cfg.Options(), termvt.SetReleaseHook(reportRelease(&c))}
	if len(cfg.Log.File) > 0 {
		logOpt, err := setLogFile(cfg.Log)
		if err != nil {
			return nil, err
		}
		opts = append(opts, logOpt)
	}
	c, err = termvt.Open(opts...)
	return c, err
}

// setLogFile appends text logs to the configured file. The file stays
// open for the lifetime of the process.
func setLogFile(lc config.LogConfig) (termvt.Option, error) {
	lvl, err := lc.SlogLevel()
	if err != nil {
		return nil, err
	}
	if debugFlag {
		lvl = slog.LevelDebug
	}
	var w io.Writer
	if lc.File == `-` {
		w = os.Stderr
	} else {
		f, err := os.OpenFile(lc.File, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o600)
		if err != nil {
			return nil, errors.New(err)
		}
		w = f
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{AddSource: true, Level: lvl})
	return termvt.SetSLogger(h, true), nil
}

func parseNumberArg(args []string, i int, c *termvt.Console) (termvt.Number, error) {
	if len(args) <= i {
		return c.CurrentNumber()
	}
	return termvt.ParseNumber(args[i])
}
