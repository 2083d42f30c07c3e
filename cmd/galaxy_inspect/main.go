// Command galaxy_inspect loads a content catalog directory and reports
// its category counts, validation warnings, and any entry missing a
// name.
//
// Usage:
//
//	galaxy_inspect --content=data/content
package main

import (
	"fmt"
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/ironreach/starforge/internal/registry"
	"github.com/ironreach/starforge/pkg/logger"
)

type options struct {
	Content string `long:"content" description:"directory holding the content catalog JSON files" default:"data/content"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Name = "galaxy_inspect"

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	log := logger.NewStdLogger("galaxy_inspect")
	defer log.Release()

	reg := registry.New(log)
	if err := reg.Load(opts.Content); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load content catalog at %q: %v\n", opts.Content, err)
		os.Exit(1)
	}

	for _, category := range []registry.Category{
		registry.Planets,
		registry.Buildings,
		registry.DefenseUnits,
		registry.PlanetFeatures,
		registry.Resources,
		registry.OffenseUnits,
		registry.Ships,
	} {
		fmt.Printf("%-16s %d entries\n", category, len(reg.All(category)))
	}
}
