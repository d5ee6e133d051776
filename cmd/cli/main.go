package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/startupstack/startupstack/internal/client"
	"github.com/startupstack/startupstack/internal/operations"
)

type cli struct {
	Server  string        `help:"Dispatch service base URL." default:"http://localhost:8080" env:"STARTUPSTACK_SERVER"`
	User    string        `help:"User ID to meter usage against; empty runs anonymously." env:"STARTUPSTACK_USER_ID"`
	Timeout time.Duration `help:"Per-attempt timeout." default:"12s"`

	Run  runCmd  `cmd:"" default:"withargs" help:"Run one AI operation."`
	List listCmd `cmd:"" help:"List supported operations and their required parameters."`
}

type runCmd struct {
	Operation string            `arg:"" help:"Operation name, e.g. generateBusinessNames."`
	Params    map[string]string `short:"p" help:"Operation parameter as key=value; repeatable."`
}

type listCmd struct{}

// consoleSink renders successful results to stdout with a short header.
type consoleSink struct{}

func (consoleSink) Display(operation, result string, params map[string]string) {
	fmt.Printf("=== %s ===\n", operation)
	if len(params) > 0 {
		pairs := make([]string, 0, len(params))
		for k, v := range params {
			pairs = append(pairs, k+"="+v)
		}
		fmt.Printf("params: %s\n", strings.Join(pairs, " "))
	}
	fmt.Println()
	fmt.Println(result)
}

func (c *runCmd) Run(root *cli) error {
	o := client.New(client.Config{
		BaseURL:        root.Server,
		UserID:         root.User,
		AttemptTimeout: root.Timeout,
	}, consoleSink{})

	_, err := o.Invoke(context.Background(), c.Operation, c.Params)
	if err != nil {
		if client.IsLimit(err) {
			fmt.Fprintln(os.Stderr, err.Error())
			fmt.Fprintln(os.Stderr, "Upgrade at https://startupstack.io/pricing to unlock unlimited usage.")
			os.Exit(2)
		}
		return err
	}
	return nil
}

func (listCmd) Run() error {
	for _, kind := range operations.Kinds() {
		required, _ := operations.RequiredParams(kind)
		fmt.Printf("%-28s required: %s\n", kind, strings.Join(required, ", "))
	}
	return nil
}

func main() {
	var root cli
	ctx := kong.Parse(&root,
		kong.Name("startupstack"),
		kong.Description("Command-line client for the StartupStack AI operations service."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&root))
}
