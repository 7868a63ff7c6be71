package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/alecthomas/kong"
	"github.com/davecgh/go-spew/spew"

	"github.com/dtoforge/dtoforge/dtogen/provider"
)

type CLI struct {
	Version VersionCmd `cmd:"" help:"Print version information."`
	Enums   EnumsCmd   `cmd:"" help:"Scan packages for enum constant groups."`

	Verbose bool `help:"Enable debug logging." short:"v"`
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println(Version())
	return nil
}

type EnumsCmd struct {
	Packages []string `arg:"" help:"Package patterns to scan, e.g. ./internal/model/..."`
	Dump     bool     `help:"Dump the full member table." short:"d"`
}

func (c *EnumsCmd) Run() error {
	table, err := provider.LoadEnums(context.Background(), c.Packages...)
	if err != nil {
		return err
	}
	if c.Dump {
		spew.Fdump(os.Stdout, table)
		return nil
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s (%d members)\n", name, len(table[name]))
	}
	return nil
}

func main() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("dtoforge"),
		kong.Description("Transport binding generator for Go domain services."),
		kong.UsageOnError(),
	)
	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
