package main

import "github.com/kiesman99/tilepyramid/cmd"

func main() {
	cmd.Execute()
}
