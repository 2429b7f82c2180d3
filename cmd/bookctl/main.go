package main

import "bookctl/cmd/bookctl/cmd"

func main() {
	cmd.Execute()
}
