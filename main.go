package main

import "crowdexport/cmd"

func main() {
	cmd.Execute()
}
