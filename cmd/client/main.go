package main

import "medsync/cmd/client/cmd"

func main() {
	cmd.Execute()
}
