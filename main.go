package main

import "github.com/tranvictor/nns/cmd"

func main() {
	cmd.Execute()
}
