package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/docker/go-units"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/notekit/display/broadcast"
	"github.com/notekit/display/preview"
	"github.com/notekit/display/tabular"
	"github.com/notekit/display/userconfig"
)

// The CLI is the broadcast-less path of the library made runnable: it reads
// a stream of JSON values, formats each one into a media bundle the way a
// kernel session would, and shows what a frontend would have received.
// Useful for eyeballing how a value will render without standing up a
// notebook server.
func main() {
	// Log with filename and line number. This writes to stderr, so it
	// should be thread safe.
	// https://github.com/rs/zerolog/blob/7ccd4c940bf8a02fcc5f10e5475f9d3daff04d57/log/log.go#L13
	log.Logger = log.With().Caller().Logger()

	// Intercept interrupts so we can get more visibility into them.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func(c chan os.Signal) {
		<-sigCh
		log.Info().Msg("interrupt: exiting")
		os.Exit(0)
	}(sigCh)

	configPath := flag.String(
		"config",
		"",
		"path to a JSON or YAML file containing your configuration",
	)
	mime := flag.String(
		"mime",
		"",
		"print this MIME type's representation verbatim instead of a terminal preview",
	)
	table := flag.Bool(
		"table",
		false,
		"treat each JSON array of objects as a dataframe",
	)
	level := flag.String(
		"level",
		"info",
		`log level: "info", "debug", or "warn"`,
	)
	flag.Parse()

	switch *level {
	case "debug":
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	case "warn":
		log.Logger = log.Logger.Level(zerolog.WarnLevel)
	default:
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	config := &userconfig.Meta{}
	if *configPath != "" {
		f, err := os.Open(*configPath)

		if err != nil {
			log.Error().
				Str("config-path", *configPath).
				Err(err).
				Msg("We can't open the application config file")
			os.Exit(1)
		}

		config, err = userconfig.Parse(f)

		if err != nil {
			log.Error().
				Err(err).
				Msg("Problem parsing your config")
			os.Exit(1)
		}
	}

	checkedConfig, err := config.CheckAndSetDefaults()
	if err != nil {
		log.Error().
			Err(err).
			Msg("Problem validating your config")
		os.Exit(1)
	}

	// Values come from a file argument or stdin, one JSON value per line
	// (or any whitespace-separated stream json.Decoder accepts).
	var in io.Reader = os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Error().
				Str("input-path", flag.Arg(0)).
				Err(err).
				Msg("We can't open the input file")
			os.Exit(1)
		}
		defer f.Close()
		in = f
	}

	// No SendFunc: this process is not a kernel, so bundles come straight
	// back for printing.
	b := broadcast.New(broadcast.Config{
		Limits: checkedConfig.Limits(),
	})

	if err := run(in, os.Stdout, b, *mime, *table); err != nil {
		log.Error().Err(err).Msg("error formatting the input values")
		os.Exit(1)
	}
}

// run decodes each value from in and writes its rendering to out. Split
// from main for testing.
func run(in io.Reader, out io.Writer, b *broadcast.Broadcaster, mime string, table bool) error {
	dec := json.NewDecoder(in)

	for {
		var v interface{}
		err := dec.Decode(&v)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("can't decode an input value as JSON: %v", err)
		}

		if table {
			v = frameIfRecords(v)
		}

		mb, _, err := b.Display(context.Background(), v, broadcast.DisplayOptions{})
		if err != nil {
			return err
		}

		log.Debug().
			Str("bundle", mb.String()).
			Str("size", units.HumanSize(float64(mb.Size()))).
			Msg("formatted a value")

		if mime != "" {
			r, ok := mb.Data[mime]
			if !ok {
				return fmt.Errorf(
					"the bundle has no %v representation, only %v",
					mime,
					mb.MIMETypes(),
				)
			}
			if err := printRepresentation(out, r); err != nil {
				return err
			}
			continue
		}

		rendered, _, err := preview.Render(mb, preview.Config{Width: 80, Style: "auto"})
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, rendered); err != nil {
			return errors.New("cannot write the rendered output")
		}
	}
}

// printRepresentation writes one MIME representation verbatim: strings as-is,
// structured values as JSON.
func printRepresentation(out io.Writer, r interface{}) error {
	if s, ok := r.(string); ok {
		_, err := fmt.Fprintln(out, s)
		return err
	}

	j, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("can't serialize the representation: %v", err)
	}
	_, err = fmt.Fprintln(out, string(j))
	return err
}

// frameIfRecords upgrades a decoded JSON array of objects to a dataframe so
// it renders as a preview table. Anything else passes through.
func frameIfRecords(v interface{}) interface{} {
	rows, ok := v.([]interface{})
	if !ok || len(rows) == 0 {
		return v
	}

	records := make([]map[string]interface{}, len(rows))
	for i, r := range rows {
		m, ok := r.(map[string]interface{})
		if !ok {
			return v
		}
		records[i] = m
	}

	return tabular.FromRecords(records)
}
