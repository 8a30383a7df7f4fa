package main

import "github.com/theirongolddev/capflow/cmd"

func main() {
	cmd.Execute()
}
