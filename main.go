package main

import "github.com/temsafy/temsafy/cmd"

func main() {
	cmd.Execute()
}
