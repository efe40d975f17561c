package main

import "github.com/josephlewis42/cshell/cmd"

func main() {
	cmd.Execute()
}
