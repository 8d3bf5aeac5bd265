package main

import "street-sync/cmd"

func main() {
	cmd.Execute()
}
