package main

import "appstream-builder/internal/cli"

func main() {
	cli.Execute()
}
