/**
 * Copyright (c) 2018, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/engine"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/executor"
	"github.com/Martmists-GH/multiplatform-everything-sub000/internal/starwars"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errRequestFailed makes the command exit with a failure once the result has been printed.
var errRequestFailed = errors.New("request failed")

// options holds the flags shared by every command.
type options struct {
	configFile string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "gqlexec",
		Short:         "Execute GraphQL documents against the Star Wars schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (yaml, json or toml)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "one of debug, info, warn and error")

	cmd.AddCommand(
		newQueryCommand(&opts),
		newSubscribeCommand(&opts),
		newSchemaCommand(),
	)
	return cmd
}

// loadViper reads the configuration and lets flags override it.
func loadViper(cmd *cobra.Command, opts *options) (*viper.Viper, error) {
	v, err := engine.NewViper(opts.configFile)
	if err != nil {
		return nil, err
	}
	if err := v.BindPFlag(engine.KeyLogLevel, cmd.Flag("log-level")); err != nil {
		return nil, err
	}
	return v, nil
}

// newEngine builds the engine and its logger from the configuration. The returned function flushes
// the logger.
func newEngine(cmd *cobra.Command, opts *options) (*engine.Engine, func(), error) {
	v, err := loadViper(cmd, opts)
	if err != nil {
		return nil, nil, err
	}
	config, err := engine.LoadConfig(v)
	if err != nil {
		return nil, nil, err
	}

	logger, err := engine.NewLogger(config)
	if err != nil {
		return nil, nil, err
	}

	e, err := engine.New(starwars.Schema(), config, engine.WithLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return e, func() { _ = logger.Sync() }, nil
}

// requestFlags are the flags describing a request.
type requestFlags struct {
	file          string
	operationName string
	variables     string
	clearance     int
}

func (flags *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", `read the document from a file ("-" for stdin)`)
	cmd.Flags().StringVarP(&flags.operationName, "operation", "o", "", "name of the operation to run")
	cmd.Flags().StringVar(&flags.variables, "variables", "", "variables as a JSON object")
	cmd.Flags().IntVar(&flags.clearance, "clearance", 0, "clearance level of the caller")
}

var variablesJSON = jsoniter.Config{UseNumber: true}.Froze()

// request assembles the request from the flags and the positional argument.
func (flags *requestFlags) request(cmd *cobra.Command, args []string) (engine.Request, error) {
	var req engine.Request

	switch {
	case len(args) > 0 && flags.file != "":
		return req, errors.New("give the document either as an argument or with --file")
	case len(args) > 0:
		req.Query = args[0]
	case flags.file != "":
		query, err := readInput(cmd, flags.file)
		if err != nil {
			return req, err
		}
		req.Query = string(query)
	default:
		return req, errors.New("missing document")
	}

	req.OperationName = flags.operationName
	if flags.variables != "" {
		if err := variablesJSON.UnmarshalFromString(flags.variables, &req.Variables); err != nil {
			return req, fmt.Errorf("invalid --variables: %w", err)
		}
	}
	req.Values = flags.values()
	return req, nil
}

func (flags *requestFlags) values() []interface{} {
	if flags.clearance > 0 {
		return []interface{}{starwars.Clearance{Level: flags.clearance}}
	}
	return nil
}

func readInput(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(name)
}

func printResult(cmd *cobra.Command, result *executor.ExecutionResult) error {
	return result.MarshalJSONTo(cmd.OutOrStdout())
}

func newQueryCommand(opts *options) *cobra.Command {
	var (
		flags   requestFlags
		payload string
	)

	cmd := &cobra.Command{
		Use:   "query [document]",
		Short: "Execute a query or a mutation and print its result",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, flush, err := newEngine(cmd, opts)
			if err != nil {
				return err
			}
			defer flush()

			var result *executor.ExecutionResult
			if payload != "" {
				body, err := readInput(cmd, payload)
				if err != nil {
					return err
				}
				result = e.ExecutePayload(contextOrBackground(cmd.Context()), body, flags.values()...)
			} else {
				req, err := flags.request(cmd, args)
				if err != nil {
					return err
				}
				result = e.Execute(contextOrBackground(cmd.Context()), req)
			}

			if err := printResult(cmd, result); err != nil {
				return err
			}
			if !result.HasData() {
				return errRequestFailed
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&payload, "payload", "",
		`read a JSON request body with "query", "operationName" and "variables" from a file ("-" for stdin)`)
	return cmd
}

func newSubscribeCommand(opts *options) *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "subscribe [document]",
		Short: "Execute a subscription and print one result per event",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, flush, err := newEngine(cmd, opts)
			if err != nil {
				return err
			}
			defer flush()

			req, err := flags.request(cmd, args)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(contextOrBackground(cmd.Context()), os.Interrupt)
			defer stop()

			results, err := e.Subscribe(ctx, req)
			var errs graphql.Errors
			if errors.As(err, &errs) {
				if err := printResult(cmd, executor.NewErrorResult(errs)); err != nil {
					return err
				}
				return errRequestFailed
			} else if err != nil {
				return err
			}
			for result := range results {
				if err := printResult(cmd, result); err != nil {
					return err
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the schema in GraphQL SDL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), starwars.Schema().SDL())
			return err
		},
	}
}

// contextOrBackground guards commands run without ExecuteContext.
func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
