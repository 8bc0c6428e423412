package main

import "github.com/macmeta/macmeta/cli"

func main() {
	cli.Execute()
}
