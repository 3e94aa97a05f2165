// cmd/main.go is the application entry point.
// The cobra command tree lives alongside it in this package.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
