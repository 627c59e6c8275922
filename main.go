// Package main provides the entry point for the bilanci CLI application.
package main

import (
	"context"
	"fmt"
	"os"

	"fjacquet/bilanci/cmd/analyze"
	"fjacquet/bilanci/cmd/batch"
	"fjacquet/bilanci/cmd/invoice"
	"fjacquet/bilanci/cmd/mapping"
	"fjacquet/bilanci/cmd/root"
	"fjacquet/bilanci/cmd/serve"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(analyze.Cmd)
	root.Cmd.AddCommand(invoice.Cmd)
	root.Cmd.AddCommand(mapping.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
