package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"portfolio/convert"
	"portfolio/logger"
	"portfolio/options"
	"portfolio/server"
	"portfolio/util"
)

const VERSION = "1.0.0"

func newLogger(opts options.LogOptions) (*logger.ZapLogger, error) {
	log, err := logger.NewLogger(opts.LogFormat, opts.LogLevel)
	if err != nil {
		return nil, &util.ErrorWithCode{
			StatusCode:    util.ERROR_BAD_LOGGING_CONFIG,
			InternalError: err,
		}
	}
	return log, nil
}

func serve(ctx *cli.Context) error {
	opts, err := options.ParseServeOptions(ctx)
	if err != nil {
		return err
	}
	log, err := newLogger(opts.LogOptions)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	srv, err := server.New(opts, log)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(runCtx)
}

func convertExpressions(ctx *cli.Context) error {
	opts, err := options.ParseConvertOptions(ctx)
	if err != nil {
		return err
	}
	log, err := newLogger(opts.LogOptions)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	return convert.Run(opts, log)
}

func main() {
	cli.AppHelpTemplate =
		`NAME:
   portfolio - ` + VERSION + ` - Personal portfolio site with infix to postfix and linked list demos.

USAGE:
   portfolio [global flags] serve   [--addr value] [optional flags]
   portfolio [global flags] convert --in value [--out value] [optional flags]

GLOBAL FLAGS:
   --log-format value   log output format, one of text or json (default: "text")
   --log-level value    log level, one of none, debug, info, warn, error or fatal (default: "info")
   --help, -h           show help (default: false)
   --version, -v        print the version (default: false)

EXIT CODES:
  0    Success
  201  Listen address is invalid
  202  Input path is invalid
  203  Output path is invalid
  204  Some expressions could not be converted
  205  Listen address could not be bound
  206  Logging configuration is invalid
  1    Any other error
`

	app := &cli.App{
		Name:    "portfolio",
		Usage:   "Personal portfolio site with infix to postfix and linked list demos.",
		Flags:   options.GlobalFlags,
		Version: VERSION,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "serve the portfolio pages over HTTP",
				Flags:  options.ServeFlags,
				Action: serve,
			},
			{
				Name:   "convert",
				Usage:  "convert infix expressions from a file, one per line",
				Flags:  options.ConvertFlags,
				Action: convertExpressions,
			},
		},
	}

	err := app.RunContext(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed: %v\n", err)
		var errorWithCode *util.ErrorWithCode
		if errors.As(err, &errorWithCode) {
			os.Exit(errorWithCode.StatusCode)
		}
		os.Exit(1)
	}
}
