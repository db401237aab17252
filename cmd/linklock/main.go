package main

import "github.com/linklock-project/linklock/internal/cli"

func main() {
	cli.Execute()
}
