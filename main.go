package main

import "retroconv/cmd"

func main() {
	cmd.Execute()
}
