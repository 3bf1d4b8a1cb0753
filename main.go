package main

import "datapath/cmd"

func main() {
	cmd.Execute()
}
