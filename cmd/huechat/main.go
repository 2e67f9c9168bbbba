package main

import "github.com/lucas/huechat/internal/commands"

func main() {
	commands.Execute()
}
