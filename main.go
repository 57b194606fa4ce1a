package main

import "pagebridge/cmd"

func main() {
	cmd.Execute()
}
