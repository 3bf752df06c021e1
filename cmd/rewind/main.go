package main

import "github.com/jasperwreed/chat-rewind/internal/cli"

func main() {
	cli.Execute()
}
