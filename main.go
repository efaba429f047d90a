package main

import "github.com/twiced-technology-gmbh/bugtrack/cmd"

func main() {
	cmd.Execute()
}
