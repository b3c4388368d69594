// cogos — governance loop over daily work records.
// Aggregates records into rolling metrics, evaluates a fixed rule table,
// and applies graduated interventions against a persisted state.
package main

import "github.com/skyconnfig/cognitive-os/internal/cli"

func main() {
	cli.Execute()
}
