package main

import "github.com/puffinc/hercules/cmd/hercules/cmd"

func main() {
	cmd.Execute()
}
