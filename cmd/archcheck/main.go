// archcheck validates ability and archetype definition files without
// starting a server. Exit code 1 means at least one error-severity
// finding; warnings alone exit 0.
//
// Usage:
//
//	go run ./cmd/archcheck -data data
//	go run ./cmd/archcheck -data data -quiet
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/feralworks/mobcore/internal/data"
)

func main() {
	dir := flag.String("data", "data", "directory with definition files")
	quiet := flag.Bool("quiet", false, "print errors only")
	flag.Parse()

	// Loader progress lines are noise here; findings are the output.
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))

	reg, err := data.LoadDir(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	findings := data.Validate(reg)

	warns, errs := 0, 0
	for _, f := range findings {
		if f.Severity == data.SeverityWarn {
			warns++
			if !*quiet {
				fmt.Println(f)
			}
			continue
		}
		errs++
		fmt.Println(f)
	}

	fmt.Printf("abilities:  %d\n", reg.AbilityCount())
	fmt.Printf("archetypes: %d\n", reg.ArchetypeCount())
	fmt.Printf("warnings:   %d\n", warns)
	fmt.Printf("errors:     %d\n", errs)

	if errs > 0 {
		os.Exit(1)
	}
}
