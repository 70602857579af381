package main

import "github.com/relloyd/costpipe/cmd"

func main() {
	cmd.Execute()
}
