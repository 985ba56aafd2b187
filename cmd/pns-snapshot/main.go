package main

import "pns-snapshot/cmd"

func main() {
	cmd.Execute()
}
