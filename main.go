package main

import "github.com/KaramelBytes/titanic-cli/cmd"

func main() {
	cmd.Execute()
}
