package main

import "github.com/gloudstoun/socketsentry/cmd"

func main() {
	cmd.Execute()
}
