// Package main provides the entry point for the clonescan CLI.
//
// clonescan detects lookalike ("typosquat") domains impersonating a
// legitimate site. It generates plausible domain variants, fetches their
// pages, and scores textual similarity against the legitimate page.
//
// Usage:
//
//	clonescan scan example.com
//	clonescan scan --list domains.txt
//
// See --help for all available options.
package main

// main is the entry point for clonescan.
func main() {
	Execute()
}
