package main

import "lodgehall/internal/cli"

func main() {
	cli.Execute()
}
