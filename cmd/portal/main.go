package main

import "github.com/medilink/portal/cmd/portal/cmd"

func main() {
	cmd.Execute()
}
