// Package main is the entry point for the volleytag CLI tool, which records
// tagged volleyball actions against a live lineup and derives match and
// player statistics from the accumulated event ledger.
package main

import "github.com/pable/volleytag/cmd"

func main() {
	cmd.Execute()
}
