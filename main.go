package main

import "github.com/0glabs/0g-namespace/cmd"

func main() {
	cmd.Execute()
}
