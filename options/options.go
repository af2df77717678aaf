package options

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"portfolio/util"
)

const StdStream = "-"

var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "log-format",
		Value:   "text",
		Usage:   "log output format, one of text or json",
		EnvVars: []string{"PORTFOLIO_LOG_FORMAT"},
	},
	&cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		Usage:   "log level, one of none, debug, info, warn, error or fatal",
		EnvVars: []string{"PORTFOLIO_LOG_LEVEL"},
	},
}

var ServeFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "addr",
		Aliases: []string{"a"},
		Value:   ":8080",
		Usage:   "address to listen on, host:port",
		EnvVars: []string{"PORTFOLIO_ADDR"},
	},
	&cli.StringFlag{
		Name:     "cors-origins",
		Value:    "",
		Usage:    "allowed CORS origins, comma delimited, may contain any glob pattern",
		EnvVars:  []string{"PORTFOLIO_CORS_ORIGINS"},
		Required: false,
	},
	&cli.BoolFlag{
		Name:     "metrics",
		Value:    true,
		Usage:    "expose prometheus metrics at /metrics",
		EnvVars:  []string{"PORTFOLIO_METRICS"},
		Required: false,
	},
	&cli.UintFlag{
		Name:     "bind-retries",
		Value:    3,
		Usage:    "number of attempts to bind the listen address",
		Required: false,
	},
	&cli.DurationFlag{
		Name:     "shutdown-timeout",
		Value:    5 * time.Second,
		Usage:    "time allowed for in-flight requests on shutdown",
		Required: false,
	},
}

var ConvertFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "in",
		Aliases:  []string{"i"},
		Usage:    "file with one infix expression per line, - for stdin",
		Required: true,
	},
	&cli.StringFlag{
		Name:     "out",
		Aliases:  []string{"o"},
		Value:    StdStream,
		Usage:    "output file for converted expressions, - for stdout",
		Required: false,
	},
	&cli.StringFlag{
		Name:     "stats",
		Value:    "",
		Usage:    "write a JSON summary of the run to this file",
		Required: false,
	},
	&cli.IntFlag{
		Name:     "workers",
		Aliases:  []string{"w"},
		Value:    4,
		Usage:    "number of concurrent conversions",
		Required: false,
	},
}

type LogOptions struct {
	LogFormat string
	LogLevel  string
}

type ServeOptions struct {
	LogOptions
	Addr            string
	CORSOrigins     []string
	MetricsEnabled  bool
	BindRetries     uint
	ShutdownTimeout time.Duration
}

type ConvertOptions struct {
	LogOptions
	InputPath  string
	OutputPath string
	StatsPath  string
	Workers    int
}

func splitListFlag(flag string) []string {
	if len(flag) == 0 {
		return []string{}
	}
	items := strings.Split(flag, ",")
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
	}
	return items
}

func parseLogOptions(c *cli.Context) LogOptions {
	return LogOptions{
		LogFormat: c.String("log-format"),
		LogLevel:  c.String("log-level"),
	}
}

func validateAddress(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	portNumber, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("port '%v' is not a number", port)
	}
	if portNumber < 0 || portNumber > 65535 {
		return fmt.Errorf("port %v is out of range", portNumber)
	}
	return nil
}

func validateFile(filePath string) error {
	info, err := os.Stat(filePath)
	if os.IsNotExist(err) {
		return fmt.Errorf("file does not exist at %v", filePath)
	}
	if err != nil {
		return fmt.Errorf("file error at %v: %w", filePath, err)
	}
	if info.IsDir() {
		return fmt.Errorf("file is actually a directory at %v", filePath)
	}
	return nil
}

func validateDirectory(dirPath string) error {
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist at %v", dirPath)
	}
	if err != nil {
		return fmt.Errorf("directory error at %v: %w", dirPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("directory is actually a file at %v", dirPath)
	}
	return nil
}

func ParseServeOptions(c *cli.Context) (*ServeOptions, error) {
	opts := &ServeOptions{
		LogOptions:      parseLogOptions(c),
		Addr:            c.String("addr"),
		CORSOrigins:     splitListFlag(c.String("cors-origins")),
		MetricsEnabled:  c.Bool("metrics"),
		BindRetries:     c.Uint("bind-retries"),
		ShutdownTimeout: c.Duration("shutdown-timeout"),
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (opts *ServeOptions) Validate() error {
	err := validateAddress(opts.Addr)
	if err != nil {
		return &util.ErrorWithCode{
			StatusCode:    util.ERROR_BAD_ADDRESS,
			InternalError: fmt.Errorf("listen address '%v' is invalid: %v", opts.Addr, err),
		}
	}
	if opts.BindRetries == 0 {
		opts.BindRetries = 1
	}
	return nil
}

func ParseConvertOptions(c *cli.Context) (*ConvertOptions, error) {
	opts := &ConvertOptions{
		LogOptions: parseLogOptions(c),
		InputPath:  c.String("in"),
		OutputPath: c.String("out"),
		StatsPath:  c.String("stats"),
		Workers:    c.Int("workers"),
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

func (opts *ConvertOptions) Validate() error {
	if opts.InputPath != StdStream {
		err := validateFile(opts.InputPath)
		if err != nil {
			return &util.ErrorWithCode{
				StatusCode:    util.ERROR_BAD_INPUT_PATH,
				InternalError: fmt.Errorf("input at '%v' is missing or invalid: %v", opts.InputPath, err),
			}
		}
	}

	for _, outputPath := range []string{opts.OutputPath, opts.StatsPath} {
		if outputPath == "" || outputPath == StdStream {
			continue
		}
		err := validateDirectory(filepath.Dir(outputPath))
		if err != nil {
			return &util.ErrorWithCode{
				StatusCode:    util.ERROR_BAD_OUTPUT_PATH,
				InternalError: err,
			}
		}
	}

	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return nil
}
