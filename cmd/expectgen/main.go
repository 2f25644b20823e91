package main

import "github.com/expectgen/expectgen/cmd/expectgen/commands"

func main() {
	commands.Execute()
}
