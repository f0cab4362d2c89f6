// Package main provides the entry point for the badwords CLI.
//
// badwords downloads a list of bad words for a language, compiles it into a
// whole-word matcher and scans the files under a directory. The scan stops at
// the first file that contains a listed word.
//
// Usage:
//
//	badwords scan --language en
//	badwords scan -l en -x "vendor/**" ./docs ./web
//
// Exit status is 0 when no bad word was found, 1 when one was found and 2 on
// any other error. See --help for all available options.
package main

// main is the entry point for badwords.
func main() {
	Execute()
}
