// Command pebble-seed creates the built-in schema variants and loads their
// seed rows.
package main

import "github.com/marshallshelly/pebble-seed/cmd/pebble-seed/commands"

func main() {
	commands.Execute()
}
