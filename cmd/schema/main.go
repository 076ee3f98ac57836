package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/umputun/aspirant/pkg/config"
)

type opts struct {
	Check bool `long:"check" description:"fail if the schema file is out of date instead of writing it"`
	Args  struct {
		Output string `positional-arg-name:"output" description:"schema file, schema.json if omitted"`
	} `positional-args:"yes"`
}

func main() {
	var o opts
	if _, err := flags.Parse(&o); err != nil {
		os.Exit(1)
	}
	if o.Args.Output == "" {
		o.Args.Output = "schema.json"
	}

	data, err := json.MarshalIndent(config.GenerateSchema(), "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal schema: %v", err)
	}
	data = append(data, '\n')

	if o.Check {
		current, err := os.ReadFile(o.Args.Output)
		if err != nil {
			log.Fatalf("failed to read %s: %v", o.Args.Output, err)
		}
		if !bytes.Equal(current, data) {
			log.Fatalf("%s is stale, regenerate it with go generate ./pkg/config", o.Args.Output)
		}
		fmt.Printf("%s is up to date\n", o.Args.Output)
		return
	}

	if err := os.WriteFile(o.Args.Output, data, 0o600); err != nil { //nolint:gosec // schema file is not sensitive
		log.Fatalf("failed to write %s: %v", o.Args.Output, err)
	}
	fmt.Printf("schema written to %s\n", o.Args.Output)
}
