package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iov-one/gatekeeper"
	gatekeeperd "github.com/iov-one/gatekeeper/cmd/gatekeeperd/app"
	"github.com/iov-one/gatekeeper/commands/server"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	flagHome = "home"
	varHome  *string
)

func init() {
	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".gatekeeper")
	varHome = flag.String(flagHome, defaultHome, "directory to store files under")

	flag.CommandLine.Usage = helpMessage
}

func helpMessage() {
	fmt.Println("gatekeeperd")
	fmt.Println("          Multisig controlled allowlist and token transfer gate")
	fmt.Println("")
	fmt.Println("help      Print this message")
	fmt.Println("init      Initialize config and genesis file: init [owner,...] [threshold]")
	fmt.Println("start     Run the HTTP API: start [-http addr] [-debug]")
	fmt.Println("validate  Check that genesis files load: validate <file>...")
	fmt.Println("version   Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.gatekeeper")`)
}

func main() {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "gatekeeperd")

	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	cmd := flag.Arg(0)
	rest := flag.Args()[1:]

	var err error
	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(gatekeeperd.GenInitOptions, logger, *varHome, rest)
	case "start":
		err = server.StartCmd(gatekeeperd.Application, gatekeeperd.Messages(), logger, *varHome, rest)
	case "validate":
		err = server.ValidateGenesis(gatekeeperd.Initializers(gatekeeperd.NewComponents()), rest)
	case "version":
		fmt.Println(gatekeeper.Version())
	default:
		err = fmt.Errorf("unknown command: %s", cmd)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		helpMessage()
		os.Exit(1)
	}
}
