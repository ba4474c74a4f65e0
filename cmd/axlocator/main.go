package main

import "github.com/devicelab-dev/axlocator/pkg/cli"

func main() {
	cli.Execute()
}
