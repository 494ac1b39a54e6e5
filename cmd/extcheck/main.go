package main

import "github.com/mvp-joe/extcheck/internal/cli"

func main() {
	cli.Execute()
}
