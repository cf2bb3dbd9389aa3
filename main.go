package main

import "github.com/dmelnik/saveguard/cmd"

func main() {
	cmd.Execute()
}
