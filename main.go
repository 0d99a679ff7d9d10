package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

const defaultTargetID = "readme-button"

type config struct {
	urls     urlList
	input    string
	output   string
	id       string
	interval time.Duration
	timeout  time.Duration
	headless bool
	verbose  bool
	spinner  *Spinner
}

// urlList collects repeated -url flags
type urlList []string

func (u *urlList) String() string {
	return strings.Join(*u, ",")
}

func (u *urlList) Set(value string) error {
	*u = append(*u, value)
	return nil
}

func main() {
	config := parseFlags(os.Args[1:])
	log := newLogger(config.logOutput(), config.verbose)

	err := config.validate()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	targets, err := extractTargets(ctx, config, log)
	if err != nil {
		log.Fatal(err)
	}
	if len(targets) == 0 {
		log.Fatal("no valid URLs to open")
	}

	// open every page in a browser and click the target element
	results, err := clickAll(ctx, config, targets, log)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}

	// write click results
	if config.output != "" {
		err = writeResultsToCSV(config.output, results)
		if err != nil {
			log.Fatal(err)
		}
	}
}

// parseFlags parses command line flags and returns a config
func parseFlags(args []string) config {
	var config config

	fs := flag.NewFlagSet("autoclick", flag.ExitOnError)

	// define flags
	fs.Var(&config.urls, "url", "URL of a page to open (repeatable)")
	fs.StringVar(&config.input, "input", "", "Path to input CSV file with URLs")
	fs.StringVar(&config.output, "output", "", "Path to output CSV report (optional)")
	fs.StringVar(&config.id, "id", defaultTargetID, "Id of the element to click")
	fs.DurationVar(&config.interval, "interval", defaultPeriod, "Delay between two lookups of the element")
	fs.DurationVar(&config.timeout, "timeout", 0, "Give up on a page after this long (0 = wait forever)")
	fs.BoolVar(&config.headless, "headless", true, "Run the browser without a window")
	fs.BoolVar(&config.verbose, "verbose", false, "Log lookups and browser events")

	_ = fs.Parse(args)

	config.id = strings.TrimPrefix(strings.TrimSpace(config.id), "#")

	// the spinner only makes sense on a terminal, and verbose output would
	// bury it anyway
	var spinnerOut io.Writer
	if !config.verbose && isatty.IsTerminal(os.Stderr.Fd()) {
		spinnerOut = color.Error
	}
	config.spinner = newSpinner(spinnerOut)

	return config
}

// validate ensures the configuration is valid
func (c *config) validate() error {
	if len(c.urls) == 0 && c.input == "" {
		return fmt.Errorf("neither URLs nor input file are specified")
	}

	if c.id == "" {
		return fmt.Errorf("element id cannot be empty")
	}

	if c.interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.interval)
	}

	if c.timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", c.timeout)
	}

	return validateInputFile(c.input)
}

// logOutput returns where log lines go: through the spinner when it is
// enabled, so that they do not land in the middle of the animation
func (c *config) logOutput() io.Writer {
	if c.spinner != nil && c.spinner.out != nil {
		return c.spinner
	}

	return os.Stderr
}

// newLogger returns a text logger writing to out, at debug level when verbose
func newLogger(out io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	return log
}
