package main

import "textguard/internal/cli"

func main() {
	cli.Execute()
}
