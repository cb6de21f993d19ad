package main

import "citizenhub/cmd"

func main() {
	cmd.Execute()
}
