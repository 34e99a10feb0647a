package main

import "samarth/internal/cli"

func main() {
	cli.Execute()
}
