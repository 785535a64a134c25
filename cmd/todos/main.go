// Command todos manages a todo list from the command line, over HTTP
// (todos serve) or in a terminal view (todos ui).
package main

import "github.com/mesh-intelligence/todos/internal/cli"

func main() {
	cli.Execute()
}
