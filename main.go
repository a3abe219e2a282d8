package main

import "macdisp/cmd"

func main() {
	cmd.Execute()
}
