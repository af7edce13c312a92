// Command template-lint validates a template catalog and, given sample
// answers, previews each template.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"contract-workers/internal/models"
	"contract-workers/pkg/registry"
)

func main() {
	catalogPath := flag.String("catalog", "configs/templates.yaml", "Path to the template catalog (JSON or YAML)")
	samplesPath := flag.String("samples", "", "Optional sample answers keyed by template id")
	preview := flag.Bool("preview", false, "Print the plain-text preview for templates with samples")
	asJSON := flag.Bool("json", false, "Print reports as JSON")
	flag.Parse()

	cat, err := registry.LoadCatalog(*catalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(2)
	}

	var samples map[string]models.FormData
	if *samplesPath != "" {
		samples, err = registry.LoadSamples(*samplesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading samples: %v\n", err)
			os.Exit(2)
		}
	}

	reports := cat.Check(samples)

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding reports: %v\n", err)
			os.Exit(2)
		}
	} else {
		printReports(reports, *preview)
	}

	for _, r := range reports {
		if !r.OK() {
			os.Exit(1)
		}
	}
}

func printReports(reports []registry.Report, preview bool) {
	failed := 0
	for _, r := range reports {
		status := "ok"
		if !r.OK() {
			status = "FAIL"
			failed++
		}
		fmt.Printf("[%s] %s (%s)\n", status, r.TemplateID, r.Name)

		for _, e := range r.Structure.Errors {
			fmt.Printf("    %s: %s\n", e.Code, e.Message)
		}
		if r.Answers != nil {
			for _, e := range r.Answers.Errors {
				fmt.Printf("    sample %s %s: %s\n", e.FieldID, e.Code, e.Message)
			}
		}
		if preview && r.Preview != nil {
			fmt.Println()
			fmt.Println(r.Preview.Text)
		}
	}
	fmt.Printf("%d template(s) checked, %d failed\n", len(reports), failed)
}
