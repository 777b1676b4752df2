package main

import "github.com/Rorical/ecli/cmd"

func main() {
	cmd.Execute()
}
