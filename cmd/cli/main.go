package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/akozlov/custhub/internal/client"
)

func main() {

	server := flag.String("s", "http://localhost:3001", "iam server base URL")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: cli [-s server] <register|login|validate|logout>")
		os.Exit(2)
	}

	app := client.NewApp(client.NewAPIClient(*server), os.Stdin, os.Stdout)

	if err := app.Run(context.Background(), flag.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

}
