// Package main - scenario-runner
// Executable to run full-session engine scenarios.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/lmedrano/pulso/test"
)

func main() {
	fmt.Println("🌃 PULSO - SCENARIO SUITE")
	fmt.Println("================================================")

	ctx := context.Background()

	harness := test.NewHarness()
	harness.RunAll(ctx)

	results := harness.GetResults()
	passed := 0
	failed := 0

	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("📊 SCENARIO SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("   ✅ Passed: %d\n", passed)
	fmt.Printf("   ❌ Failed: %d\n", failed)

	if failed > 0 {
		fmt.Println("\n⚠️  Engine needs attention before deployment")
		os.Exit(1)
	}
	fmt.Println("\n✅ Engine is ready for deployment")
	os.Exit(0)
}
