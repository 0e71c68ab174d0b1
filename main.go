package main

import "github.com/askdir/askdir/cmd"

func main() {
	cmd.Execute()
}
